// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Share protocols accepted on create.
const (
	ProtoNFS       = "NFS"
	ProtoCIFS      = "CIFS"
	ProtoGlusterFS = "GlusterFS"
	ProtoHDFS      = "HDFS"
	ProtoCephFS    = "CEPHFS"
)

// Access rule types and levels.
const (
	AccessTypeIP   = "ip"
	AccessTypeUser = "user"
	AccessTypeCert = "cert"

	AccessLevelRW = "rw"
	AccessLevelRO = "ro"
)

// Share is a remotely mountable file system.
type Share struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Size             int               `json:"size"`
	ShareProto       string            `json:"share_proto"`
	Status           string            `json:"status"`
	IsPublic         bool              `json:"is_public"`
	Host             string            `json:"host"`
	ProjectID        string            `json:"project_id"`
	SnapshotID       string            `json:"snapshot_id"`
	ShareNetworkID   string            `json:"share_network_id"`
	ShareTypeID      string            `json:"share_type_id"`
	ShareGroupID     string            `json:"share_group_id"`
	AvailabilityZone string            `json:"availability_zone"`
	ExportLocation   string            `json:"export_location"`
	CreatedAt        string            `json:"created_at"`
	Metadata         map[string]string `json:"metadata"`
}

// AccessRule grants or denies a client access to a share.
type AccessRule struct {
	ID          string `json:"id"`
	ShareID     string `json:"share_id"`
	AccessType  string `json:"access_type"`
	AccessTo    string `json:"access_to"`
	AccessLevel string `json:"access_level"`
	State       string `json:"state"`
}

// ShareCreateOpts are the settings for a new share.
type ShareCreateOpts struct {
	Proto            string
	Size             int
	Name             string
	Description      string
	SnapshotID       string
	ShareNetworkID   string
	ShareTypeID      string
	ShareGroupID     string
	AvailabilityZone string
	IsPublic         bool
	Metadata         map[string]string
}

// ShareUpdateOpts are the mutable share attributes. Nil fields are left
// untouched; an all-nil update is a no-op.
type ShareUpdateOpts struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// ShareManageOpts brings an existing backend export under management.
type ShareManageOpts struct {
	ServiceHost   string
	Protocol      string
	ExportPath    string
	ShareTypeID   string
	Name          string
	Description   string
	DriverOptions map[string]string
}

// ShareListOpts filter and order List results.
type ShareListOpts struct {
	AllTenants bool
	// IsPublic defaults to true when nil, matching the service default.
	IsPublic       *bool
	Name           string
	Status         string
	Host           string
	ShareServerID  string
	SnapshotID     string
	ShareNetworkID string
	ShareTypeID    string
	ShareGroupID   string
	Limit          int
	Offset         int
	SortKey        string
	SortDir        string
}

var shareSortKeys = []string{
	"id", "status", "size", "host", "share_proto", "availability_zone",
	"user_id", "project_id", "created_at", "updated_at", "display_name",
	"name", "share_type_id", "share_network_id", "snapshot_id",
}

var shareSortAliases = map[string]string{
	"share_type":    "share_type_id",
	"share_network": "share_network_id",
	"snapshot":      "snapshot_id",
}

// ShareManager manages Share resources.
type ShareManager struct {
	c *client.Client
}

// Create creates a share.
func (m *ShareManager) Create(ctx context.Context, opts ShareCreateOpts) (*Share, error) {
	if opts.Proto == "" {
		return nil, fmt.Errorf("share protocol is required")
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("share size must be a positive number of GiB")
	}

	metadata := opts.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	body := map[string]any{
		"share": map[string]any{
			"share_proto":       opts.Proto,
			"size":              opts.Size,
			"name":              emptyToNil(opts.Name),
			"description":       emptyToNil(opts.Description),
			"snapshot_id":       emptyToNil(opts.SnapshotID),
			"share_network_id":  emptyToNil(opts.ShareNetworkID),
			"share_type":        emptyToNil(opts.ShareTypeID),
			"share_group_id":    emptyToNil(opts.ShareGroupID),
			"availability_zone": emptyToNil(opts.AvailabilityZone),
			"is_public":         opts.IsPublic,
			"metadata":          metadata,
		},
	}

	var out struct {
		Share Share `json:"share"`
	}
	if err := m.c.Post(ctx, "/shares", body, &out); err != nil {
		return nil, err
	}
	return &out.Share, nil
}

// Get fetches one share by ID.
func (m *ShareManager) Get(ctx context.Context, shareID string) (*Share, error) {
	var out struct {
		Share Share `json:"share"`
	}
	if err := m.c.Get(ctx, "/shares/"+shareID, &out); err != nil {
		return nil, err
	}
	return &out.Share, nil
}

// Update changes mutable share attributes. A zero-value opts is a no-op.
func (m *ShareManager) Update(ctx context.Context, shareID string, opts ShareUpdateOpts) (*Share, error) {
	fields := map[string]any{}
	if opts.Name != nil {
		fields["display_name"] = *opts.Name
	}
	if opts.Description != nil {
		fields["display_description"] = *opts.Description
	}
	if opts.IsPublic != nil {
		fields["is_public"] = *opts.IsPublic
	}
	if len(fields) == 0 {
		return m.Get(ctx, shareID)
	}

	var out struct {
		Share Share `json:"share"`
	}
	if err := m.c.Put(ctx, "/shares/"+shareID, map[string]any{"share": fields}, &out); err != nil {
		return nil, err
	}
	return &out.Share, nil
}

// List fetches detailed share listings.
func (m *ShareManager) List(ctx context.Context, opts *ShareListOpts) ([]Share, error) {
	q, err := shareListQuery(opts)
	if err != nil {
		return nil, err
	}

	var out struct {
		Shares []Share `json:"shares"`
	}
	if err := m.c.Get(ctx, "/shares/detail", &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return out.Shares, nil
}

func shareListQuery(opts *ShareListOpts) (url.Values, error) {
	if opts == nil {
		opts = &ShareListOpts{}
	}
	q := newQuery().
		SetBool("all_tenants", opts.AllTenants).
		Set("name", opts.Name).
		Set("status", opts.Status).
		Set("host", opts.Host).
		Set("share_server_id", opts.ShareServerID).
		Set("snapshot_id", opts.SnapshotID).
		Set("share_network_id", opts.ShareNetworkID).
		Set("share_type_id", opts.ShareTypeID).
		Set("share_group_id", opts.ShareGroupID).
		SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset)

	// The service treats a missing is_public as false for listing, but the
	// expected client behavior is to show public shares by default.
	isPublic := true
	if opts.IsPublic != nil {
		isPublic = *opts.IsPublic
	}
	q.Set("is_public", strconv.FormatBool(isPublic))

	if err := q.SetSort(opts.SortKey, opts.SortDir, shareSortKeys, shareSortAliases); err != nil {
		return nil, err
	}
	return q.Values(), nil
}

// Delete removes a share. shareGroupID is required when the share belongs to
// a share group.
func (m *ShareManager) Delete(ctx context.Context, shareID, shareGroupID string) error {
	path := "/shares/" + shareID
	if shareGroupID != "" {
		path += "?share_group_id=" + url.QueryEscape(shareGroupID)
	}
	return m.c.Delete(ctx, path)
}

// ForceDelete removes a share regardless of its state.
func (m *ShareManager) ForceDelete(ctx context.Context, shareID string) error {
	return m.action(ctx, shareID, m.legacyName("os-force_delete", "force_delete"), nil, nil)
}

// ResetState sets the share status.
func (m *ShareManager) ResetState(ctx context.Context, shareID, state string) error {
	return m.action(ctx, shareID, m.legacyName("os-reset_status", "reset_status"),
		map[string]string{"status": state}, nil)
}

// Extend grows the share to newSize GiB.
func (m *ShareManager) Extend(ctx context.Context, shareID string, newSize int) error {
	return m.action(ctx, shareID, m.legacyName("os-extend", "extend"),
		map[string]int{"new_size": newSize}, nil)
}

// Shrink reduces the share to newSize GiB.
func (m *ShareManager) Shrink(ctx context.Context, shareID string, newSize int) error {
	return m.action(ctx, shareID, m.legacyName("os-shrink", "shrink"),
		map[string]int{"new_size": newSize}, nil)
}

// Migrate moves the share to another host and pool. Available from 2.5.
func (m *ShareManager) Migrate(ctx context.Context, shareID, host string, forceHostCopy bool) error {
	if err := requireVersion(m.c, apiversions.MustParse("2.5"), apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.action(ctx, shareID, m.legacyName("os-migrate_share", "migrate_share"),
		map[string]any{"host": host, "force_host_copy": forceHostCopy}, nil)
}

// Manage brings an existing backend export under management.
func (m *ShareManager) Manage(ctx context.Context, opts ShareManageOpts) (*Share, error) {
	driverOptions := opts.DriverOptions
	if driverOptions == nil {
		driverOptions = map[string]string{}
	}
	body := map[string]any{
		"share": map[string]any{
			"service_host":   opts.ServiceHost,
			"protocol":       opts.Protocol,
			"export_path":    opts.ExportPath,
			"share_type":     emptyToNil(opts.ShareTypeID),
			"name":           emptyToNil(opts.Name),
			"description":    emptyToNil(opts.Description),
			"driver_options": driverOptions,
		},
	}

	path := "/shares/manage"
	if negotiated(m.c).LessThan(v2_7) {
		path = "/os-share-manage"
	}

	var out struct {
		Share Share `json:"share"`
	}
	if err := m.c.Post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Share, nil
}

// Unmanage releases a share from management without deleting backend data.
func (m *ShareManager) Unmanage(ctx context.Context, shareID string) error {
	if negotiated(m.c).LessThan(v2_7) {
		return m.c.Post(ctx, "/os-share-unmanage/"+shareID+"/unmanage", nil, nil)
	}
	return m.action(ctx, shareID, "unmanage", nil, nil)
}

// Allow grants accessTo access to the share. Returns the created rule.
func (m *ShareManager) Allow(ctx context.Context, shareID, accessType, accessTo, accessLevel string) (*AccessRule, error) {
	if err := validateAccess(accessType, accessTo); err != nil {
		return nil, err
	}
	info := map[string]string{
		"access_type": accessType,
		"access_to":   accessTo,
	}
	if accessLevel != "" {
		info["access_level"] = accessLevel
	}

	var out struct {
		Access AccessRule `json:"access"`
	}
	if err := m.action(ctx, shareID, m.legacyName("os-allow_access", "allow_access"), info, &out); err != nil {
		return nil, err
	}
	return &out.Access, nil
}

// Deny revokes the access rule with the given ID.
func (m *ShareManager) Deny(ctx context.Context, shareID, accessID string) error {
	return m.action(ctx, shareID, m.legacyName("os-deny_access", "deny_access"),
		map[string]string{"access_id": accessID}, nil)
}

// AccessList fetches the share's access rules.
func (m *ShareManager) AccessList(ctx context.Context, shareID string) ([]AccessRule, error) {
	var out struct {
		AccessList []AccessRule `json:"access_list"`
	}
	if err := m.action(ctx, shareID, m.legacyName("os-access_list", "access_list"), nil, &out); err != nil {
		return nil, err
	}
	return out.AccessList, nil
}

// GetMetadata fetches the share metadata.
func (m *ShareManager) GetMetadata(ctx context.Context, shareID string) (map[string]string, error) {
	var out struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := m.c.Get(ctx, "/shares/"+shareID+"/metadata", &out); err != nil {
		return nil, err
	}
	return out.Metadata, nil
}

// SetMetadata merges metadata into the share's existing metadata.
func (m *ShareManager) SetMetadata(ctx context.Context, shareID string, metadata map[string]string) (map[string]string, error) {
	var out struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := m.c.Post(ctx, "/shares/"+shareID+"/metadata",
		map[string]any{"metadata": metadata}, &out); err != nil {
		return nil, err
	}
	return out.Metadata, nil
}

// DeleteMetadata removes the given metadata keys, one request per key.
func (m *ShareManager) DeleteMetadata(ctx context.Context, shareID string, keys []string) error {
	for _, key := range keys {
		if err := m.c.Delete(ctx, "/shares/"+shareID+"/metadata/"+url.PathEscape(key)); err != nil {
			return fmt.Errorf("delete metadata key %q: %w", key, err)
		}
	}
	return nil
}

// ReplaceMetadata replaces the full metadata set.
func (m *ShareManager) ReplaceMetadata(ctx context.Context, shareID string, metadata map[string]string) (map[string]string, error) {
	var out struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := m.c.Put(ctx, "/shares/"+shareID+"/metadata",
		map[string]any{"metadata": metadata}, &out); err != nil {
		return nil, err
	}
	return out.Metadata, nil
}

// ListInstances lists the backend instances of the share. Available from 2.3.
func (m *ShareManager) ListInstances(ctx context.Context, shareID string) ([]ShareInstance, error) {
	if err := requireVersion(m.c, v2_3, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	var out struct {
		ShareInstances []ShareInstance `json:"share_instances"`
	}
	if err := m.c.Get(ctx, "/shares/"+shareID+"/instances", &out); err != nil {
		return nil, err
	}
	return out.ShareInstances, nil
}

// action posts to /shares/<id>/action with the {action: info} envelope.
func (m *ShareManager) action(ctx context.Context, shareID, action string, info, result any) error {
	return m.c.Post(ctx, "/shares/"+shareID+"/action", actionBody(action, info), result)
}

// legacyName picks the pre-2.7 os- action name when the negotiated version
// requires it.
func (m *ShareManager) legacyName(legacy, modern string) string {
	if negotiated(m.c).LessThan(v2_7) {
		return legacy
	}
	return modern
}

var usernameRe = regexp.MustCompile(`^[\w.\-_` + "`" + `;'{}\[\]\\]{4,32}$`)

// validateAccess applies the client-side checks on access rules before they
// hit the wire.
func validateAccess(accessType, accessTo string) error {
	switch accessType {
	case AccessTypeIP:
		return validateIPRange(accessTo)
	case AccessTypeUser:
		if !usernameRe.MatchString(accessTo) {
			return fmt.Errorf("invalid user or group name: must be 4-32 characters " +
				"of alphanumerics and ]{.-_'`;}[\\")
		}
		return nil
	case AccessTypeCert:
		// accessTo is the certificate common name the backend matches on.
		cn := strings.TrimSpace(accessTo)
		if len(cn) == 0 || len(cn) > 64 {
			return fmt.Errorf("invalid CN (common name): must be 1-64 chars long")
		}
		return nil
	default:
		return fmt.Errorf("only ip, user, and cert access types are supported")
	}
}

func validateIPRange(ipRange string) error {
	const hint = "supported ip format examples: 10.0.0.2, 10.0.0.0/24"

	parts := strings.Split(ipRange, "/")
	if len(parts) > 2 {
		return fmt.Errorf("%s", hint)
	}
	if len(parts) == 2 {
		prefix, err := strconv.Atoi(parts[1])
		if err != nil || prefix < 0 || prefix > 32 {
			return fmt.Errorf("IP prefix should be in range from 0 to 32")
		}
	}
	octets := strings.Split(parts[0], ".")
	if len(octets) != 4 {
		return fmt.Errorf("%s", hint)
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("%s", hint)
		}
	}
	return nil
}

// emptyToNil keeps optional strings out of request bodies, matching the
// service's treatment of explicit null.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
