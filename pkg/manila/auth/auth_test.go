// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keystoneStub(t *testing.T, status int, token string, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/tokens", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		auth, ok := req["auth"].(map[string]any)
		require.True(t, ok, "request missing auth block")
		require.Contains(t, auth, "identity")
		require.Contains(t, auth, "scope")

		if token != "" {
			w.Header().Set("X-Subject-Token", token)
		}
		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticate(t *testing.T) {
	srv := keystoneStub(t, http.StatusCreated, "gAAAAA-token", `{
		"token": {
			"expires_at": "2026-08-26T00:00:00Z",
			"project": {"id": "p-123"},
			"catalog": [
				{
					"type": "sharev2",
					"name": "manilav2",
					"endpoints": [
						{"interface": "public", "region": "RegionOne", "url": "http://sfs.example:8786/v2/p-123"},
						{"interface": "internal", "region": "RegionOne", "url": "http://sfs.internal:8786/v2/p-123"}
					]
				}
			]
		}
	}`)

	tok, err := Authenticate(context.Background(), srv.Client(), Credentials{
		AuthURL:     srv.URL,
		Username:    "demo",
		Password:    "swordfish",
		ProjectName: "demo-project",
	})
	require.NoError(t, err)
	assert.Equal(t, "gAAAAA-token", tok.Value)
	assert.Equal(t, "p-123", tok.ProjectID)
	assert.False(t, tok.Expired())

	url, err := tok.EndpointFor(ServiceTypeShareV2, InterfacePublic, "RegionOne")
	require.NoError(t, err)
	assert.Equal(t, "http://sfs.example:8786/v2/p-123", url)

	url, err = tok.EndpointFor(ServiceTypeShareV2, "internal", "")
	require.NoError(t, err)
	assert.Equal(t, "http://sfs.internal:8786/v2/p-123", url)

	_, err = tok.EndpointFor(ServiceTypeShareV2, "admin", "")
	require.ErrorIs(t, err, ErrNoEndpoint)
}

func TestAuthenticateFailure(t *testing.T) {
	srv := keystoneStub(t, http.StatusUnauthorized, "", `{"error": {"message": "bad credentials", "code": 401}}`)

	_, err := Authenticate(context.Background(), srv.Client(), Credentials{
		AuthURL:     srv.URL,
		Username:    "demo",
		Password:    "wrong",
		ProjectName: "demo-project",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestAuthenticateMissingSubjectToken(t *testing.T) {
	srv := keystoneStub(t, http.StatusCreated, "", `{"token": {}}`)

	_, err := Authenticate(context.Background(), srv.Client(), Credentials{
		AuthURL:     srv.URL,
		Username:    "demo",
		Password:    "pw",
		ProjectName: "demo-project",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "X-Subject-Token")
}

func TestAuthenticateValidation(t *testing.T) {
	t.Parallel()

	_, err := Authenticate(context.Background(), nil, Credentials{})
	require.Error(t, err)

	_, err = Authenticate(context.Background(), nil, Credentials{AuthURL: "http://ks"})
	require.Error(t, err)
}

func TestEndpointForShareFallback(t *testing.T) {
	t.Parallel()

	tok := &Token{Catalog: []CatalogEntry{{
		Type: ServiceTypeShare,
		Endpoints: []Endpoint{
			{Interface: "public", Region: "RegionOne", URL: "http://sfs:8786/v1/p"},
		},
	}}}

	url, err := tok.EndpointFor(ServiceTypeShareV2, "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://sfs:8786/v1/p", url)
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	assert.False(t, (&Token{}).Expired())
	assert.True(t, (&Token{ExpiresAt: time.Now().Add(30 * time.Second)}).Expired())
	assert.False(t, (&Token{ExpiresAt: time.Now().Add(time.Hour)}).Expired())
}
