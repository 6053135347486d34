// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Snapshot is a point-in-time copy of a share.
type Snapshot struct {
	ID               string `json:"id"`
	ShareID          string `json:"share_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Size             int    `json:"size"`
	ShareProto       string `json:"share_proto"`
	ShareSize        int    `json:"share_size"`
	CreatedAt        string `json:"created_at"`
	ProviderLocation string `json:"provider_location"`
}

// SnapshotCreateOpts are the settings for a new snapshot.
type SnapshotCreateOpts struct {
	ShareID     string
	Name        string
	Description string
	Force       bool
}

// SnapshotListOpts filter and order snapshot listings.
type SnapshotListOpts struct {
	AllTenants bool
	Name       string
	Status     string
	ShareID    string
	Limit      int
	Offset     int
	SortKey    string
	SortDir    string
}

var snapshotSortKeys = []string{
	"id", "status", "size", "share_id", "user_id", "project_id",
	"progress", "name", "display_name", "created_at", "updated_at",
}

// SnapshotManager manages Snapshot resources.
type SnapshotManager struct {
	c *client.Client
}

// Create snapshots a share. Force snapshots a share in a transitional state.
func (m *SnapshotManager) Create(ctx context.Context, opts SnapshotCreateOpts) (*Snapshot, error) {
	body := map[string]any{
		"snapshot": map[string]any{
			"share_id":    opts.ShareID,
			"name":        emptyToNil(opts.Name),
			"description": emptyToNil(opts.Description),
			"force":       opts.Force,
		},
	}
	var out struct {
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := m.c.Post(ctx, "/snapshots", body, &out); err != nil {
		return nil, err
	}
	return &out.Snapshot, nil
}

// Get fetches one snapshot by ID.
func (m *SnapshotManager) Get(ctx context.Context, snapshotID string) (*Snapshot, error) {
	var out struct {
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := m.c.Get(ctx, "/snapshots/"+snapshotID, &out); err != nil {
		return nil, err
	}
	return &out.Snapshot, nil
}

// Update changes the snapshot name or description. Nil fields are untouched.
func (m *SnapshotManager) Update(ctx context.Context, snapshotID string, name, description *string) (*Snapshot, error) {
	fields := map[string]any{}
	if name != nil {
		fields["display_name"] = *name
	}
	if description != nil {
		fields["display_description"] = *description
	}
	if len(fields) == 0 {
		return m.Get(ctx, snapshotID)
	}

	var out struct {
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := m.c.Put(ctx, "/snapshots/"+snapshotID, map[string]any{"snapshot": fields}, &out); err != nil {
		return nil, err
	}
	return &out.Snapshot, nil
}

// List fetches detailed snapshot listings.
func (m *SnapshotManager) List(ctx context.Context, opts *SnapshotListOpts) ([]Snapshot, error) {
	if opts == nil {
		opts = &SnapshotListOpts{}
	}
	q := newQuery().
		SetBool("all_tenants", opts.AllTenants).
		Set("name", opts.Name).
		Set("status", opts.Status).
		Set("share_id", opts.ShareID).
		SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset)
	if err := q.SetSort(opts.SortKey, opts.SortDir, snapshotSortKeys, nil); err != nil {
		return nil, err
	}

	var out struct {
		Snapshots []Snapshot `json:"snapshots"`
	}
	if err := m.c.Get(ctx, "/snapshots/detail", &out, client.WithQuery(q.Values())); err != nil {
		return nil, err
	}
	return out.Snapshots, nil
}

// Delete removes a snapshot.
func (m *SnapshotManager) Delete(ctx context.Context, snapshotID string) error {
	return m.c.Delete(ctx, "/snapshots/"+snapshotID)
}

// ForceDelete removes a snapshot regardless of its state.
func (m *SnapshotManager) ForceDelete(ctx context.Context, snapshotID string) error {
	return m.action(ctx, snapshotID, m.legacyName("os-force_delete", "force_delete"), nil)
}

// ResetState sets the snapshot status.
func (m *SnapshotManager) ResetState(ctx context.Context, snapshotID, state string) error {
	return m.action(ctx, snapshotID, m.legacyName("os-reset_status", "reset_status"),
		map[string]string{"status": state})
}

// SnapshotManageOpts brings an existing backend snapshot under management.
// Available from 2.12.
type SnapshotManageOpts struct {
	ShareID          string
	ProviderLocation string
	Name             string
	Description      string
	DriverOptions    map[string]string
}

// Manage brings an existing backend snapshot under management.
func (m *SnapshotManager) Manage(ctx context.Context, opts SnapshotManageOpts) (*Snapshot, error) {
	if err := requireVersion(m.c, v2_12, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	driverOptions := opts.DriverOptions
	if driverOptions == nil {
		driverOptions = map[string]string{}
	}
	body := map[string]any{
		"snapshot": map[string]any{
			"share_id":          opts.ShareID,
			"provider_location": opts.ProviderLocation,
			"name":              emptyToNil(opts.Name),
			"description":       emptyToNil(opts.Description),
			"driver_options":    driverOptions,
		},
	}
	var out struct {
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := m.c.Post(ctx, "/snapshots/manage", body, &out); err != nil {
		return nil, err
	}
	return &out.Snapshot, nil
}

// Unmanage releases a snapshot from management without deleting backend data.
func (m *SnapshotManager) Unmanage(ctx context.Context, snapshotID string) error {
	if err := requireVersion(m.c, v2_12, apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.action(ctx, snapshotID, "unmanage", nil)
}

// Allow grants access to a mountable snapshot. Available from 2.32.
func (m *SnapshotManager) Allow(ctx context.Context, snapshotID, accessType, accessTo string) (*AccessRule, error) {
	if err := requireVersion(m.c, v2_32, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	if err := validateAccess(accessType, accessTo); err != nil {
		return nil, err
	}
	var out struct {
		Access AccessRule `json:"snapshot_access"`
	}
	body := actionBody("allow_access", map[string]string{
		"access_type": accessType,
		"access_to":   accessTo,
	})
	if err := m.c.Post(ctx, "/snapshots/"+snapshotID+"/action", body, &out); err != nil {
		return nil, err
	}
	return &out.Access, nil
}

// Deny revokes snapshot access. Available from 2.32.
func (m *SnapshotManager) Deny(ctx context.Context, snapshotID, accessID string) error {
	if err := requireVersion(m.c, v2_32, apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.action(ctx, snapshotID, "deny_access", map[string]string{"access_id": accessID})
}

// AccessList fetches the snapshot's access rules. Available from 2.32.
func (m *SnapshotManager) AccessList(ctx context.Context, snapshotID string) ([]AccessRule, error) {
	if err := requireVersion(m.c, v2_32, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	var out struct {
		AccessList []AccessRule `json:"snapshot_access_list"`
	}
	if err := m.c.Get(ctx, "/snapshots/"+snapshotID+"/access-list", &out); err != nil {
		return nil, err
	}
	return out.AccessList, nil
}

func (m *SnapshotManager) action(ctx context.Context, snapshotID, action string, info any) error {
	return m.c.Post(ctx, "/snapshots/"+snapshotID+"/action", actionBody(action, info), nil)
}

func (m *SnapshotManager) legacyName(legacy, modern string) string {
	if negotiated(m.c).LessThan(v2_7) {
		return legacy
	}
	return modern
}
