// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"
	"net/url"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// QuotaSet is a project's resource limits. A value of -1 means unlimited.
type QuotaSet struct {
	ID                string `json:"id"`
	Shares            int    `json:"shares"`
	Gigabytes         int    `json:"gigabytes"`
	Snapshots         int    `json:"snapshots"`
	SnapshotGigabytes int    `json:"snapshot_gigabytes"`
	ShareNetworks     int    `json:"share_networks"`
}

// QuotaUpdateOpts are quota fields to change; nil fields are untouched.
type QuotaUpdateOpts struct {
	Shares            *int
	Gigabytes         *int
	Snapshots         *int
	SnapshotGigabytes *int
	ShareNetworks     *int
	Force             bool
}

// QuotaManager manages per-project quota sets.
type QuotaManager struct {
	c *client.Client
}

func quotaPath(projectID, userID string) string {
	path := "/quota-sets/" + projectID
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	return path
}

// Get fetches the quota set of a project, optionally scoped to one user.
func (m *QuotaManager) Get(ctx context.Context, projectID, userID string) (*QuotaSet, error) {
	var out struct {
		QuotaSet QuotaSet `json:"quota_set"`
	}
	if err := m.c.Get(ctx, quotaPath(projectID, userID), &out); err != nil {
		return nil, err
	}
	return &out.QuotaSet, nil
}

// Defaults fetches the default quota set for a project.
func (m *QuotaManager) Defaults(ctx context.Context, projectID string) (*QuotaSet, error) {
	var out struct {
		QuotaSet QuotaSet `json:"quota_set"`
	}
	if err := m.c.Get(ctx, "/quota-sets/"+projectID+"/defaults", &out); err != nil {
		return nil, err
	}
	return &out.QuotaSet, nil
}

// Update changes a project's quota set.
func (m *QuotaManager) Update(ctx context.Context, projectID, userID string, opts QuotaUpdateOpts) (*QuotaSet, error) {
	fields := map[string]any{}
	if opts.Shares != nil {
		fields["shares"] = *opts.Shares
	}
	if opts.Gigabytes != nil {
		fields["gigabytes"] = *opts.Gigabytes
	}
	if opts.Snapshots != nil {
		fields["snapshots"] = *opts.Snapshots
	}
	if opts.SnapshotGigabytes != nil {
		fields["snapshot_gigabytes"] = *opts.SnapshotGigabytes
	}
	if opts.ShareNetworks != nil {
		fields["share_networks"] = *opts.ShareNetworks
	}
	if opts.Force {
		fields["force"] = true
	}
	if len(fields) == 0 {
		return m.Get(ctx, projectID, userID)
	}

	var out struct {
		QuotaSet QuotaSet `json:"quota_set"`
	}
	if err := m.c.Put(ctx, quotaPath(projectID, userID),
		map[string]any{"quota_set": fields}, &out); err != nil {
		return nil, err
	}
	return &out.QuotaSet, nil
}

// Delete reverts a project's quota set to the defaults.
func (m *QuotaManager) Delete(ctx context.Context, projectID, userID string) error {
	return m.c.Delete(ctx, quotaPath(projectID, userID))
}
