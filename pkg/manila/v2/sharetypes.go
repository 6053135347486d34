// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"
	"fmt"
	"net/url"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// DriverHandlesShareServers is the required extra spec of every share type.
const DriverHandlesShareServers = "driver_handles_share_servers"

// ShareType describes a class of shares (backend capabilities via extra
// specs).
type ShareType struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	IsPublic   bool              `json:"share_type_access:is_public"`
	ExtraSpecs map[string]string `json:"extra_specs"`
}

// ShareTypeCreateOpts are the settings for a new share type.
type ShareTypeCreateOpts struct {
	Name string
	// DriverHandlesShareServers becomes the mandatory extra spec of the
	// same name.
	DriverHandlesShareServers bool
	IsPublic                  bool
	ExtraSpecs                map[string]string
}

// ShareTypeManager manages ShareType resources.
type ShareTypeManager struct {
	c *client.Client
}

// Create creates a share type.
func (m *ShareTypeManager) Create(ctx context.Context, opts ShareTypeCreateOpts) (*ShareType, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("share type name is required")
	}
	specs := map[string]string{
		DriverHandlesShareServers: fmt.Sprintf("%t", opts.DriverHandlesShareServers),
	}
	for k, v := range opts.ExtraSpecs {
		if k == DriverHandlesShareServers {
			return nil, fmt.Errorf("set %s via the dedicated field, not extra specs", DriverHandlesShareServers)
		}
		specs[k] = v
	}

	body := map[string]any{
		"share_type": map[string]any{
			"name":                        opts.Name,
			"share_type_access:is_public": opts.IsPublic,
			"extra_specs":                 specs,
		},
	}
	var out struct {
		ShareType ShareType `json:"share_type"`
	}
	if err := m.c.Post(ctx, "/types", body, &out); err != nil {
		return nil, err
	}
	return &out.ShareType, nil
}

// Get fetches one share type by ID.
func (m *ShareTypeManager) Get(ctx context.Context, typeID string) (*ShareType, error) {
	var out struct {
		ShareType ShareType `json:"share_type"`
	}
	if err := m.c.Get(ctx, "/types/"+typeID, &out); err != nil {
		return nil, err
	}
	return &out.ShareType, nil
}

// List fetches share types. showAll includes private types.
func (m *ShareTypeManager) List(ctx context.Context, showAll bool) ([]ShareType, error) {
	q := url.Values{}
	if showAll {
		q.Set("is_public", "all")
	}
	var out struct {
		ShareTypes []ShareType `json:"share_types"`
	}
	if err := m.c.Get(ctx, "/types", &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return out.ShareTypes, nil
}

// Default fetches the default share type.
func (m *ShareTypeManager) Default(ctx context.Context) (*ShareType, error) {
	var out struct {
		ShareType ShareType `json:"share_type"`
	}
	if err := m.c.Get(ctx, "/types/default", &out); err != nil {
		return nil, err
	}
	return &out.ShareType, nil
}

// Delete removes a share type.
func (m *ShareTypeManager) Delete(ctx context.Context, typeID string) error {
	return m.c.Delete(ctx, "/types/"+typeID)
}

// SetExtraSpecs merges extra specs into the share type.
func (m *ShareTypeManager) SetExtraSpecs(ctx context.Context, typeID string, specs map[string]string) (map[string]string, error) {
	var out struct {
		ExtraSpecs map[string]string `json:"extra_specs"`
	}
	if err := m.c.Post(ctx, "/types/"+typeID+"/extra_specs",
		map[string]any{"extra_specs": specs}, &out); err != nil {
		return nil, err
	}
	return out.ExtraSpecs, nil
}

// UnsetExtraSpec removes one extra spec key from the share type.
func (m *ShareTypeManager) UnsetExtraSpec(ctx context.Context, typeID, key string) error {
	return m.c.Delete(ctx, "/types/"+typeID+"/extra_specs/"+url.PathEscape(key))
}

// GetExtraSpecs fetches the share type's extra specs.
func (m *ShareTypeManager) GetExtraSpecs(ctx context.Context, typeID string) (map[string]string, error) {
	var out struct {
		ExtraSpecs map[string]string `json:"extra_specs"`
	}
	if err := m.c.Get(ctx, "/types/"+typeID+"/extra_specs", &out); err != nil {
		return nil, err
	}
	return out.ExtraSpecs, nil
}

// AddProjectAccess grants a project access to a private share type.
func (m *ShareTypeManager) AddProjectAccess(ctx context.Context, typeID, projectID string) error {
	return m.c.Post(ctx, "/types/"+typeID+"/action",
		actionBody("addProjectAccess", map[string]string{"project": projectID}), nil)
}

// RemoveProjectAccess revokes a project's access to a private share type.
func (m *ShareTypeManager) RemoveProjectAccess(ctx context.Context, typeID, projectID string) error {
	return m.c.Post(ctx, "/types/"+typeID+"/action",
		actionBody("removeProjectAccess", map[string]string{"project": projectID}), nil)
}

// ListProjectAccess lists projects allowed to use a private share type.
func (m *ShareTypeManager) ListProjectAccess(ctx context.Context, typeID string) ([]string, error) {
	var out struct {
		ShareTypeAccess []struct {
			ProjectID string `json:"project_id"`
		} `json:"share_type_access"`
	}
	if err := m.c.Get(ctx, "/types/"+typeID+"/share_type_access", &out); err != nil {
		return nil, err
	}
	projects := make([]string, 0, len(out.ShareTypeAccess))
	for _, a := range out.ShareTypeAccess {
		projects = append(projects, a.ProjectID)
	}
	return projects, nil
}
