// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the minimal identity (Keystone v3) surface the
// client needs: password-scoped token issue and service-catalog endpoint
// lookup. Pre-issued tokens with an endpoint override skip this package.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/manilago/pkg/logger"
)

// Service types the Shared File Systems service registers under.
const (
	ServiceTypeShareV2 = "sharev2"
	ServiceTypeShare   = "share"

	// InterfacePublic is the default endpoint interface.
	InterfacePublic = "public"
)

// ErrNoEndpoint is returned when the service catalog has no matching endpoint.
var ErrNoEndpoint = errors.New("no matching endpoint in service catalog")

// Credentials is a Keystone v3 password authentication request.
type Credentials struct {
	AuthURL           string
	Username          string
	Password          string
	ProjectName       string
	ProjectDomainName string
	UserDomainName    string
}

// Endpoint is one entry of a catalog service.
type Endpoint struct {
	Interface string `json:"interface"`
	Region    string `json:"region"`
	URL       string `json:"url"`
}

// CatalogEntry is one service of the catalog.
type CatalogEntry struct {
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Token is an issued service token plus the catalog it came with.
type Token struct {
	Value     string
	ExpiresAt time.Time
	ProjectID string
	Catalog   []CatalogEntry
}

// Expired reports whether the token is past (or within a minute of) expiry.
func (t *Token) Expired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt.Add(-time.Minute))
}

// EndpointFor finds a service endpoint by type, interface and region. Empty
// region matches any. The share service registers as both "sharev2" and
// "share"; callers asking for sharev2 fall back to share.
func (t *Token) EndpointFor(serviceType, iface, region string) (string, error) {
	if iface == "" {
		iface = InterfacePublic
	}
	for _, svc := range t.Catalog {
		if svc.Type != serviceType {
			continue
		}
		for _, ep := range svc.Endpoints {
			if ep.Interface != iface {
				continue
			}
			if region != "" && ep.Region != region {
				continue
			}
			return ep.URL, nil
		}
	}
	if serviceType == ServiceTypeShareV2 {
		return t.EndpointFor(ServiceTypeShare, iface, region)
	}
	return "", fmt.Errorf("%w: type=%s interface=%s region=%q", ErrNoEndpoint, serviceType, iface, region)
}

// Authenticate issues a project-scoped token via POST /auth/tokens.
func Authenticate(ctx context.Context, hc *http.Client, creds Credentials) (*Token, error) {
	if creds.AuthURL == "" {
		return nil, errors.New("auth: OS_AUTH_URL is required")
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, errors.New("auth: username and password are required")
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	payload := map[string]any{
		"auth": map[string]any{
			"identity": map[string]any{
				"methods": []string{"password"},
				"password": map[string]any{
					"user": map[string]any{
						"name":     creds.Username,
						"password": creds.Password,
						"domain":   map[string]string{"name": orDefault(creds.UserDomainName)},
					},
				},
			},
			"scope": map[string]any{
				"project": map[string]any{
					"name":   creds.ProjectName,
					"domain": map[string]string{"name": orDefault(creds.ProjectDomainName)},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("auth: encode request: %w", err)
	}

	url := strings.TrimSuffix(creds.AuthURL, "/") + "/auth/tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auth: read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("auth: token issue failed: HTTP %d: %s", resp.StatusCode, truncate(data, 200))
	}

	subject := resp.Header.Get("X-Subject-Token")
	if subject == "" {
		return nil, errors.New("auth: identity response missing X-Subject-Token")
	}

	var parsed struct {
		Token struct {
			ExpiresAt time.Time      `json:"expires_at"`
			Catalog   []CatalogEntry `json:"catalog"`
			Project   struct {
				ID string `json:"id"`
			} `json:"project"`
		} `json:"token"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("auth: decode response: %w", err)
	}

	logger.Ctx(ctx).Debug().
		Str("project_id", parsed.Token.Project.ID).
		Time("expires_at", parsed.Token.ExpiresAt).
		Msg("issued identity token")

	return &Token{
		Value:     subject,
		ExpiresAt: parsed.Token.ExpiresAt,
		ProjectID: parsed.Token.Project.ID,
		Catalog:   parsed.Token.Catalog,
	}, nil
}

func orDefault(domain string) string {
	if domain == "" {
		return "Default"
	}
	return domain
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
