// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is the HTTP transport beneath the resource managers: token
// injection, microversion headers, retries with jittered backoff, optional
// client-side rate limiting, and request metrics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/LeeDigitalWorks/manilago/pkg/logger"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/utils"
)

const (
	authTokenHeader = "X-Auth-Token" //nolint:gosec // header name, not a credential
	requestIDHeader = "X-Openstack-Request-Id"

	defaultTimeout = 60 * time.Second
)

// RetryPolicy controls retries of transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy is deliberately conservative; control-plane calls are
// cheap to repeat but slow to time out.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

// ReauthFunc re-issues a service token after a 401. It returns the new token.
type ReauthFunc func(ctx context.Context) (string, error)

// Client talks to one Shared File Systems endpoint. All resource managers in
// pkg/manila/v2 share a single Client, so the underlying connections are
// pooled across managers (one http.Client, keep-alives on).
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	userAgent  string
	retry      RetryPolicy
	limiter    *rate.Limiter

	mu           sync.RWMutex
	token        string
	reauth       ReauthFunc
	microversion apiversions.APIVersion
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryPolicy overrides the default retry behavior.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithRateLimit caps outgoing requests at rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds default headers sent with every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithToken seeds the service token (pre-issued token auth).
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the given service endpoint, e.g.
// "https://host:8786/v2/<project-id>".
func New(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("manila: endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("manila: invalid endpoint: %w", err)
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		headers:   make(http.Header),
		userAgent: "manilago/" + libraryVersion,
		retry:     DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxRetries < 0 {
		c.retry.MaxRetries = 0
	}
	registerMetrics()
	return c, nil
}

// Endpoint returns the service endpoint the client was built with.
func (c *Client) Endpoint() string { return c.baseURL.String() }

// SetToken replaces the service token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SetReauthFunc installs the callback used to refresh the token after a 401.
func (c *Client) SetReauthFunc(f ReauthFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reauth = f
}

// SetMicroversion fixes the microversion header sent on every request.
// Usually called once by NegotiateVersion.
func (c *Client) SetMicroversion(v apiversions.APIVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.microversion = v
}

// Microversion returns the negotiated microversion, zero if none yet.
func (c *Client) Microversion() apiversions.APIVersion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.microversion
}

// NegotiateVersion fetches the server's version document and pins the highest
// microversion both sides support, bounded above by requested.
func (c *Client) NegotiateVersion(ctx context.Context, requested apiversions.APIVersion) (apiversions.APIVersion, error) {
	server, err := c.serverVersion(ctx)
	if err != nil {
		return apiversions.APIVersion{}, err
	}
	picked, err := apiversions.Negotiate(requested, server)
	if err != nil {
		return apiversions.APIVersion{}, err
	}
	c.SetMicroversion(picked)
	logger.Ctx(ctx).Debug().
		Stringer("requested", requested).
		Stringer("negotiated", picked).
		Msg("negotiated API microversion")
	return picked, nil
}

// serverVersion fetches the root version document. The document lives at the
// server root, not under the /v2/<project> prefix of the endpoint.
func (c *Client) serverVersion(ctx context.Context) (apiversions.ServerVersion, error) {
	root := *c.baseURL
	root.Path = "/"
	root.RawQuery = ""

	var doc struct {
		Versions []apiversions.ServerVersion `json:"versions"`
		Version  *apiversions.ServerVersion  `json:"version"`
	}
	if err := c.do(ctx, &request{
		method:       http.MethodGet,
		absoluteURL:  root.String(),
		result:       &doc,
		okStatus:     []int{http.StatusOK, http.StatusMultipleChoices},
		noAuth:       true,
		noVersionHdr: true,
	}); err != nil {
		return apiversions.ServerVersion{}, fmt.Errorf("fetch version document: %w", err)
	}

	if doc.Version != nil {
		return *doc.Version, nil
	}
	for _, v := range doc.Versions {
		if strings.HasPrefix(v.ID, "v2") {
			return v, nil
		}
	}
	return apiversions.ServerVersion{}, errors.New("manila: version document lists no v2 endpoint")
}

// RequestOption mutates a single request.
type RequestOption func(*request)

// Experimental marks the call as an experimental API, adding the
// X-OpenStack-Manila-API-Experimental header.
func Experimental() RequestOption {
	return func(r *request) { r.experimental = true }
}

// WithQuery attaches query parameters.
func WithQuery(q url.Values) RequestOption {
	return func(r *request) { r.query = q }
}

// OKStatus overrides the set of status codes treated as success.
func OKStatus(codes ...int) RequestOption {
	return func(r *request) { r.okStatus = codes }
}

type request struct {
	method       string
	path         string
	absoluteURL  string
	query        url.Values
	body         any
	result       any
	okStatus     []int
	experimental bool
	noAuth       bool
	noVersionHdr bool
}

// Get issues a GET and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.roundTrip(ctx, http.MethodGet, path, nil, result, opts)
}

// Post issues a POST with a JSON body and decodes the response into result.
// result may be nil for action calls that return no useful body.
func (c *Client) Post(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.roundTrip(ctx, http.MethodPost, path, body, result, opts)
}

// Put issues a PUT with a JSON body and decodes the response into result.
func (c *Client) Put(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.roundTrip(ctx, http.MethodPut, path, body, result, opts)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.roundTrip(ctx, http.MethodDelete, path, nil, nil, opts)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, result any, opts []RequestOption) error {
	req := &request{method: method, path: path, body: body, result: result}
	for _, opt := range opts {
		opt(req)
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, req *request) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var payload []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("manila: encode request body: %w", err)
		}
		payload = data
	}

	fullURL := req.absoluteURL
	if fullURL == "" {
		var err error
		fullURL, err = c.buildURL(req.path, req.query)
		if err != nil {
			return err
		}
	}

	reauthed := false
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := c.once(ctx, req, fullURL, payload)
		if err == nil {
			return nil
		}

		// One transparent re-auth on an expired token, then surface.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && !reauthed && !req.noAuth {
			c.mu.RLock()
			reauth := c.reauth
			c.mu.RUnlock()
			if reauth != nil {
				token, rerr := reauth(ctx)
				if rerr != nil {
					return fmt.Errorf("manila: reauthentication failed: %w", rerr)
				}
				c.SetToken(token)
				reauthed = true
				continue
			}
		}

		if attempt >= c.retry.MaxRetries || !retryable(err) {
			return err
		}
		retriesTotal.Inc()
		delay := utils.Backoff(c.retry.BaseDelay, c.retry.MaxDelay, attempt, c.retry.Jitter)
		logger.Ctx(ctx).Debug().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Str("method", req.method).
			Msg("retrying API request")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) once(ctx context.Context, req *request, fullURL string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	c.mu.RLock()
	token := c.token
	mv := c.microversion
	c.mu.RUnlock()

	if !req.noAuth && token != "" {
		httpReq.Header.Set(authTokenHeader, token)
	}
	if !req.noVersionHdr && !mv.IsNull() {
		httpReq.Header.Set(apiversions.APIVersionHeader, mv.String())
	}
	if req.experimental {
		httpReq.Header.Set(apiversions.ExperimentalHeader, "true")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observeRequest(req.method, 0, time.Since(start))
		return fmt.Errorf("manila: %s %s: %w", req.method, httpReq.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	observeRequest(req.method, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("manila: read response: %w", err)
	}

	if !statusOK(resp.StatusCode, req.okStatus) {
		if rid := resp.Header.Get(requestIDHeader); rid != "" {
			requestID = rid
		}
		return parseAPIError(resp.StatusCode, requestID, data)
	}

	if req.result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, req.result); err != nil {
			return fmt.Errorf("manila: decode response: %w", err)
		}
	}
	return nil
}

func statusOK(code int, allowed []int) bool {
	if len(allowed) > 0 {
		for _, ok := range allowed {
			if code == ok {
				return true
			}
		}
		return false
	}
	return code >= 200 && code < 300
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// Transport-level failures (refused, reset, DNS) are worth another try.
	return true
}

func (c *Client) buildURL(path string, q url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("manila: invalid path %q: %w", path, err)
	}
	base := *c.baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	full := base.ResolveReference(ref)
	if len(q) > 0 {
		full.RawQuery = q.Encode()
	}
	return full.String(), nil
}
