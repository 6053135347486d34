// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// capture records the last request the fake service saw.
type capture struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// newFakeService starts a stub share service that answers every request with
// response and records what it received.
func newFakeService(t *testing.T, version string, status int, response string) (*Client, *capture) {
	t.Helper()
	got := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Method = r.Method
		got.Path = r.URL.Path
		got.Query = r.URL.Query()
		got.Header = r.Header.Clone()
		got.Body = nil
		if r.ContentLength > 0 {
			json.NewDecoder(r.Body).Decode(&got.Body) //nolint:errcheck
		}
		w.WriteHeader(status)
		w.Write([]byte(response)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL+"/v2/demo", client.WithRetryPolicy(client.RetryPolicy{MaxRetries: 0}))
	require.NoError(t, err)
	c.SetToken("test-token")
	c.SetMicroversion(apiversions.MustParse(version))
	return NewClient(c), got
}

func TestShareCreate(t *testing.T) {
	id := uuid.NewString()
	sfs, got := newFakeService(t, "2.40", http.StatusOK,
		`{"share": {"id": "`+id+`", "name": "wwwdata", "size": 10, "share_proto": "NFS", "status": "creating"}}`)

	share, err := sfs.Shares.Create(context.Background(), ShareCreateOpts{
		Proto:    ProtoNFS,
		Size:     10,
		Name:     "wwwdata",
		Metadata: map[string]string{"tier": "gold"},
	})
	require.NoError(t, err)
	assert.Equal(t, id, share.ID)
	assert.Equal(t, "creating", share.Status)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/v2/demo/shares", got.Path)
	payload := got.Body["share"].(map[string]any)
	assert.Equal(t, "NFS", payload["share_proto"])
	assert.Equal(t, float64(10), payload["size"])
	assert.Equal(t, "wwwdata", payload["name"])
	assert.Nil(t, payload["snapshot_id"])
	assert.Equal(t, map[string]any{"tier": "gold"}, payload["metadata"])
}

func TestShareCreateValidation(t *testing.T) {
	t.Parallel()
	sfs := NewClient(mustTransport(t))

	_, err := sfs.Shares.Create(context.Background(), ShareCreateOpts{Size: 1})
	require.Error(t, err)

	_, err = sfs.Shares.Create(context.Background(), ShareCreateOpts{Proto: ProtoNFS})
	require.Error(t, err)
}

func mustTransport(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.New("http://sfs.invalid:8786/v2/demo")
	require.NoError(t, err)
	return c
}

func TestShareListDefaults(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK, `{"shares": []}`)

	_, err := sfs.Shares.List(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "/v2/demo/shares/detail", got.Path)
	// Public shares are listed by default.
	assert.Equal(t, []string{"true"}, got.Query["is_public"])
}

func TestShareListSortAliases(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK, `{"shares": []}`)

	_, err := sfs.Shares.List(context.Background(), &ShareListOpts{
		SortKey: "share_network",
		SortDir: SortDesc,
		Status:  "available",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"share_network_id"}, got.Query["sort_key"])
	assert.Equal(t, []string{"desc"}, got.Query["sort_dir"])
	assert.Equal(t, []string{"available"}, got.Query["status"])

	_, err = sfs.Shares.List(context.Background(), &ShareListOpts{SortKey: "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort_key must be one of")

	_, err = sfs.Shares.List(context.Background(), &ShareListOpts{SortDir: "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort_dir must be one of")
}

func TestShareActionNamesByVersion(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		call       func(ctx context.Context, c *Client) error
		wantPath   string
		wantAction string
	}{
		{
			name:       "force delete legacy",
			version:    "2.6",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.ForceDelete(ctx, "s1") },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "os-force_delete",
		},
		{
			name:       "force delete modern",
			version:    "2.7",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.ForceDelete(ctx, "s1") },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "force_delete",
		},
		{
			name:       "reset state legacy",
			version:    "2.0",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.ResetState(ctx, "s1", "error") },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "os-reset_status",
		},
		{
			name:       "extend modern",
			version:    "2.50",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.Extend(ctx, "s1", 20) },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "extend",
		},
		{
			name:       "shrink legacy",
			version:    "2.6",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.Shrink(ctx, "s1", 5) },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "os-shrink",
		},
		{
			name:       "migrate legacy window",
			version:    "2.5",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.Migrate(ctx, "s1", "host2#pool", true) },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "os-migrate_share",
		},
		{
			name:       "migrate modern",
			version:    "2.7",
			call:       func(ctx context.Context, c *Client) error { return c.Shares.Migrate(ctx, "s1", "host2#pool", false) },
			wantPath:   "/v2/demo/shares/s1/action",
			wantAction: "migrate_share",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sfs, got := newFakeService(t, tc.version, http.StatusAccepted, `{}`)
			require.NoError(t, tc.call(context.Background(), sfs))
			assert.Equal(t, tc.wantPath, got.Path)
			require.NotNil(t, got.Body)
			_, ok := got.Body[tc.wantAction]
			assert.True(t, ok, "expected action %q in body %v", tc.wantAction, got.Body)
		})
	}
}

func TestShareMigrateTooOld(t *testing.T) {
	sfs, _ := newFakeService(t, "2.4", http.StatusAccepted, `{}`)

	err := sfs.Shares.Migrate(context.Background(), "s1", "host2", false)
	var nse *apiversions.NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, "2.5", nse.Min.String())
}

func TestShareManagePathByVersion(t *testing.T) {
	sfs, got := newFakeService(t, "2.6", http.StatusOK, `{"share": {"id": "m1"}}`)
	_, err := sfs.Shares.Manage(context.Background(), ShareManageOpts{
		ServiceHost: "host@backend", Protocol: ProtoNFS, ExportPath: "/exports/a",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v2/demo/os-share-manage", got.Path)

	sfs, got = newFakeService(t, "2.7", http.StatusOK, `{"share": {"id": "m1"}}`)
	_, err = sfs.Shares.Manage(context.Background(), ShareManageOpts{
		ServiceHost: "host@backend", Protocol: ProtoNFS, ExportPath: "/exports/a",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v2/demo/shares/manage", got.Path)
}

func TestShareUnmanagePathByVersion(t *testing.T) {
	sfs, got := newFakeService(t, "2.6", http.StatusAccepted, `{}`)
	require.NoError(t, sfs.Shares.Unmanage(context.Background(), "s9"))
	assert.Equal(t, "/v2/demo/os-share-unmanage/s9/unmanage", got.Path)

	sfs, got = newFakeService(t, "2.7", http.StatusAccepted, `{}`)
	require.NoError(t, sfs.Shares.Unmanage(context.Background(), "s9"))
	assert.Equal(t, "/v2/demo/shares/s9/action", got.Path)
	_, ok := got.Body["unmanage"]
	assert.True(t, ok)
}

func TestShareUpdateNoopReadsInstead(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK, `{"share": {"id": "s1", "name": "kept"}}`)

	share, err := sfs.Shares.Update(context.Background(), "s1", ShareUpdateOpts{})
	require.NoError(t, err)
	assert.Equal(t, "kept", share.Name)
	assert.Equal(t, http.MethodGet, got.Method)
}

func TestShareAllowAndAccessList(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK,
		`{"access": {"id": "a1", "access_type": "ip", "access_to": "10.0.0.0/24", "access_level": "rw"}}`)

	rule, err := sfs.Shares.Allow(context.Background(), "s1", AccessTypeIP, "10.0.0.0/24", AccessLevelRW)
	require.NoError(t, err)
	assert.Equal(t, "a1", rule.ID)
	payload := got.Body["allow_access"].(map[string]any)
	assert.Equal(t, "ip", payload["access_type"])
	assert.Equal(t, "rw", payload["access_level"])

	sfs, got = newFakeService(t, "2.6", http.StatusOK,
		`{"access_list": [{"id": "a1"}, {"id": "a2"}]}`)
	rules, err := sfs.Shares.AccessList(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, rules, 2)
	_, ok := got.Body["os-access_list"]
	assert.True(t, ok)
}

func TestValidateAccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		accessType string
		accessTo   string
		wantErr    string
	}{
		{name: "plain ip", accessType: "ip", accessTo: "10.0.0.2"},
		{name: "cidr", accessType: "ip", accessTo: "10.0.0.0/24"},
		{name: "bad prefix", accessType: "ip", accessTo: "10.0.0.0/64", wantErr: "IP prefix"},
		{name: "too many slashes", accessType: "ip", accessTo: "10.0.0.0/24/2", wantErr: "ip format"},
		{name: "short octets", accessType: "ip", accessTo: "10.0.0", wantErr: "ip format"},
		{name: "octet range", accessType: "ip", accessTo: "10.0.0.999", wantErr: "ip format"},
		{name: "user ok", accessType: "user", accessTo: "alice_01"},
		{name: "user too short", accessType: "user", accessTo: "ab", wantErr: "4-32"},
		{name: "cert ok", accessType: "cert", accessTo: "client.example.org"},
		{name: "cert empty", accessType: "cert", accessTo: "  ", wantErr: "1-64"},
		{name: "unknown type", accessType: "domain", accessTo: "x", wantErr: "only ip, user, and cert"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateAccess(tc.accessType, tc.accessTo)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestShareDeleteMetadataIteratesKeys(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/v2/demo")
	require.NoError(t, err)
	sfs := NewClient(c)

	require.NoError(t, sfs.Shares.DeleteMetadata(context.Background(), "s1", []string{"tier", "owner"}))
	assert.Equal(t, []string{
		"DELETE /v2/demo/shares/s1/metadata/tier",
		"DELETE /v2/demo/shares/s1/metadata/owner",
	}, paths)
}

func TestShareDeleteWithGroup(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusAccepted, ``)

	require.NoError(t, sfs.Shares.Delete(context.Background(), "s1", "g1"))
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/v2/demo/shares/s1", got.Path)
	assert.Equal(t, []string{"g1"}, got.Query["share_group_id"])
}

func TestQuotaUserScope(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK,
		`{"quota_set": {"id": "p1", "shares": 50, "gigabytes": 1000}}`)

	qs, err := sfs.Quotas.Get(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, qs.Shares)
	assert.Equal(t, "/v2/demo/quota-sets/p1", got.Path)
	assert.Equal(t, []string{"u1"}, got.Query["user_id"])

	shares := 25
	_, err = sfs.Quotas.Update(context.Background(), "p1", "", QuotaUpdateOpts{Shares: &shares})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.Method)
	payload := got.Body["quota_set"].(map[string]any)
	assert.Equal(t, float64(25), payload["shares"])
	_, hasGigabytes := payload["gigabytes"]
	assert.False(t, hasGigabytes)
}

func TestServicesPathByVersion(t *testing.T) {
	sfs, got := newFakeService(t, "2.6", http.StatusOK, `{"services": []}`)
	_, err := sfs.Services.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/v2/demo/os-services", got.Path)

	sfs, got = newFakeService(t, "2.7", http.StatusOK, `{"services": []}`)
	_, err = sfs.Services.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/v2/demo/services", got.Path)
}

func TestMessagesGatedAt237(t *testing.T) {
	sfs, _ := newFakeService(t, "2.36", http.StatusOK, `{"messages": []}`)
	_, err := sfs.Messages.List(context.Background(), nil)
	var nse *apiversions.NotSupportedError
	require.ErrorAs(t, err, &nse)

	sfs, got := newFakeService(t, "2.37", http.StatusOK, `{"messages": [{"id": "m1"}]}`)
	msgs, err := sfs.Messages.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "/v2/demo/messages", got.Path)
}
