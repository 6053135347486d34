// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// http.Transport keeps idle connections alive past test exit.
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRetryPolicy(RetryPolicy{MaxRetries: 0})}, opts...)
	c, err := New(srv.URL+"/v2/demo-project", opts...)
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)

	_, err = New("http://localhost:8786/v2/p1")
	require.NoError(t, err)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	c.SetToken("secret-token")
	c.SetMicroversion(apiversions.MustParse("2.42"))

	var out struct{}
	require.NoError(t, c.Get(context.Background(), "/shares", &out))

	assert.Equal(t, "secret-token", got.Get("X-Auth-Token"))
	assert.Equal(t, "2.42", got.Get(apiversions.APIVersionHeader))
	assert.Empty(t, got.Get(apiversions.ExperimentalHeader))
	assert.Contains(t, got.Get("User-Agent"), "manilago/")
	assert.NotEmpty(t, got.Get("X-Openstack-Request-Id"))
}

func TestExperimentalHeader(t *testing.T) {
	var got http.Header
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusAccepted)
	}))

	err := c.Post(context.Background(), "/share-group-replicas/abc/action",
		map[string]any{"promote": nil}, nil, Experimental())
	require.NoError(t, err)
	assert.Equal(t, "true", got.Get(apiversions.ExperimentalHeader))
}

func TestBaseURLPreservesPrefix(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))

	require.NoError(t, c.Get(context.Background(), "/shares/detail", nil))
	assert.Equal(t, "/v2/demo-project/shares/detail", gotPath)
}

func TestAPIErrorParsing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"itemNotFound": {"message": "Share abc could not be found.", "code": 404}}`)) //nolint:errcheck
	}))

	err := c.Get(context.Background(), "/shares/abc", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
	assert.Contains(t, err.Error(), "Share abc could not be found.")
}

func TestRetryOnTransientFailure(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`)) //nolint:errcheck
	}), WithRetryPolicy(RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}))

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Get(context.Background(), "/shares", &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"badRequest": {"message": "Invalid input.", "code": 400}}`)) //nolint:errcheck
	}), WithRetryPolicy(RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond}))

	err := c.Get(context.Background(), "/shares", nil)
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostBodyReplayedAcrossRetries(t *testing.T) {
	var calls atomic.Int32
	var lastBody string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf) //nolint:errcheck
		lastBody = string(buf)
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`)) //nolint:errcheck
	}), WithRetryPolicy(RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}))

	err := c.Post(context.Background(), "/shares", map[string]string{"a": "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.JSONEq(t, `{"a":"b"}`, lastBody)
}

func TestReauthOn401(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"unauthorized": {"message": "token expired", "code": 401}}`)) //nolint:errcheck
			return
		}
		calls.Add(1)
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	c.SetToken("stale")
	c.SetReauthFunc(func(ctx context.Context) (string, error) {
		return "fresh", nil
	})

	require.NoError(t, c.Get(context.Background(), "/shares", nil))
	assert.Equal(t, int32(1), calls.Load())
}

func TestReauthOnlyOnce(t *testing.T) {
	reauths := atomic.Int32{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	c.SetReauthFunc(func(ctx context.Context) (string, error) {
		reauths.Add(1)
		return "still-bad", nil
	})

	err := c.Get(context.Background(), "/shares", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), reauths.Load())
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "/shares", nil)
	require.Error(t, err)
}

func TestNegotiateVersion(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		requested string
		want      string
		wantErr   bool
	}{
		{
			name:      "modern server caps request",
			doc:       `{"versions": [{"id": "v2.0", "status": "CURRENT", "version": "2.50", "min_version": "2.0"}]}`,
			requested: "2.65",
			want:      "2.50",
		},
		{
			name:      "requested below server max",
			doc:       `{"versions": [{"id": "v2.0", "status": "CURRENT", "version": "2.50", "min_version": "2.0"}]}`,
			requested: "2.7",
			want:      "2.7",
		},
		{
			name:      "pre-microversion server",
			doc:       `{"versions": [{"id": "v2.0", "status": "CURRENT"}]}`,
			requested: "2.40",
			want:      "2.0",
		},
		{
			name:      "no v2 endpoint",
			doc:       `{"versions": [{"id": "v1.0", "status": "DEPRECATED", "version": "1.0", "min_version": "1.0"}]}`,
			requested: "2.40",
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/", r.URL.Path)
				// The root document must be reachable without a token.
				require.Empty(t, r.Header.Get("X-Auth-Token"))
				w.WriteHeader(http.StatusMultipleChoices)
				w.Write([]byte(tc.doc)) //nolint:errcheck
			}))
			c.SetToken("tok")

			got, err := c.NegotiateVersion(context.Background(), apiversions.MustParse(tc.requested))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
			assert.Equal(t, tc.want, c.Microversion().String())
		})
	}
}
