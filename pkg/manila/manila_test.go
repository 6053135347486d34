// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package manila

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeDigitalWorks/manilago/pkg/env"
)

// newShareStub serves the version document at / and a shares listing under
// the project prefix, recording the headers of the listing request.
func newShareStub(t *testing.T, maxVersion string) (*httptest.Server, *http.Header) {
	t.Helper()
	var seen http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusMultipleChoices)
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"versions": []map[string]string{
					{"id": "v2.0", "status": "CURRENT", "version": maxVersion, "min_version": "2.0"},
				},
			})
		case "/v2/p1/shares/detail":
			seen = r.Header.Clone()
			json.NewEncoder(w).Encode(map[string]any{"shares": []any{}}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestOpenWithTokenAuth(t *testing.T) {
	srv, seen := newShareStub(t, "2.65")

	sfs, err := Open(context.Background(), env.Cloud{
		AuthToken:        "sekrit",
		EndpointOverride: srv.URL + "/v2/p1",
		ShareAPIVersion:  "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.65", sfs.APIVersion().String())

	_, err = sfs.Shares.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", seen.Get("X-Auth-Token"))
	assert.Equal(t, "2.65", seen.Get("X-OpenStack-Manila-API-Version"))
}

func TestOpenNegotiatesDownToServerMax(t *testing.T) {
	srv, _ := newShareStub(t, "2.42")

	sfs, err := Open(context.Background(), env.Cloud{
		AuthToken:        "sekrit",
		EndpointOverride: srv.URL + "/v2/p1",
		ShareAPIVersion:  "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.42", sfs.APIVersion().String())
}

func TestOpenPasswordFlow(t *testing.T) {
	shareSrv, seen := newShareStub(t, "2.65")

	keystone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/tokens", r.URL.Path)
		w.Header().Set("X-Subject-Token", "issued-token")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"token": map[string]any{
				"expires_at": "2099-01-01T00:00:00Z",
				"project":    map[string]string{"id": "p1"},
				"catalog": []map[string]any{
					{
						"type": "sharev2",
						"name": "manilav2",
						"endpoints": []map[string]string{
							{"interface": "public", "region": "r1", "url": shareSrv.URL + "/v2/p1"},
						},
					},
				},
			},
		})
	}))
	t.Cleanup(keystone.Close)

	sfs, err := Open(context.Background(), env.Cloud{
		AuthURL:           keystone.URL,
		Username:          "demo",
		Password:          "pass",
		ProjectName:       "demo",
		ProjectDomainName: "Default",
		UserDomainName:    "Default",
		RegionName:        "r1",
		ShareAPIVersion:   "2.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.50", sfs.APIVersion().String())

	_, err = sfs.Shares.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "issued-token", seen.Get("X-Auth-Token"))
}

func TestOpenRejectsBadVersion(t *testing.T) {
	_, err := Open(context.Background(), env.Cloud{
		AuthToken:        "sekrit",
		EndpointOverride: "http://sfs.invalid:8786/v2/p1",
		ShareAPIVersion:  "banana",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OS_SHARE_API_VERSION")
}
