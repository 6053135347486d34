// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package manila is the SDK entry point: it turns OS_* style settings into a
// ready-to-use v2 client (authenticated, endpoint resolved, microversion
// negotiated).
package manila

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LeeDigitalWorks/manilago/pkg/env"
	"github.com/LeeDigitalWorks/manilago/pkg/logger"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/auth"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"
)

// Open authenticates against cloud and returns a negotiated v2 client.
//
// With OS_AUTH_TOKEN and OS_ENDPOINT_OVERRIDE set the identity service is
// skipped; otherwise a project-scoped token is issued and the share endpoint
// is resolved from the catalog.
func Open(ctx context.Context, cloud env.Cloud, opts ...client.Option) (*v2.Client, error) {
	requested, err := apiversions.Normalize(cloud.ShareAPIVersion)
	if err != nil {
		return nil, fmt.Errorf("OS_SHARE_API_VERSION: %w", err)
	}

	var c *client.Client
	if cloud.UsesTokenAuth() {
		c, err = client.New(cloud.EndpointOverride, append(opts, client.WithToken(cloud.AuthToken))...)
		if err != nil {
			return nil, err
		}
	} else {
		creds := auth.Credentials{
			AuthURL:           cloud.AuthURL,
			Username:          cloud.Username,
			Password:          cloud.Password,
			ProjectName:       cloud.ProjectName,
			ProjectDomainName: cloud.ProjectDomainName,
			UserDomainName:    cloud.UserDomainName,
		}
		token, err := auth.Authenticate(ctx, nil, creds)
		if err != nil {
			return nil, err
		}

		endpoint := cloud.EndpointOverride
		if endpoint == "" {
			endpoint, err = token.EndpointFor(auth.ServiceTypeShareV2, auth.InterfacePublic, cloud.RegionName)
			if err != nil {
				return nil, err
			}
		}

		c, err = client.New(endpoint, append(opts, client.WithToken(token.Value))...)
		if err != nil {
			return nil, err
		}
		c.SetReauthFunc(func(ctx context.Context) (string, error) {
			fresh, err := auth.Authenticate(ctx, nil, creds)
			if err != nil {
				return "", err
			}
			return fresh.Value, nil
		})
	}

	if _, err := c.NegotiateVersion(ctx, requested); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Debug().
		Str("endpoint", c.Endpoint()).
		Stringer("api_version", c.Microversion()).
		Msg("opened share service client")

	return v2.NewClient(c), nil
}

// OpenWithHTTPClient is Open with a caller-supplied http.Client, used by
// tests and by consumers with custom TLS setups.
func OpenWithHTTPClient(ctx context.Context, cloud env.Cloud, hc *http.Client, opts ...client.Option) (*v2.Client, error) {
	return Open(ctx, cloud, append(opts, client.WithHTTPClient(hc))...)
}
