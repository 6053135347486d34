// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// ShareInstance is one backend occurrence of a share (shares may have
// several during migration or replication).
type ShareInstance struct {
	ID               string `json:"id"`
	ShareID          string `json:"share_id"`
	Status           string `json:"status"`
	Host             string `json:"host"`
	AvailabilityZone string `json:"availability_zone"`
	ShareNetworkID   string `json:"share_network_id"`
	ShareServerID    string `json:"share_server_id"`
	ReplicaState     string `json:"replica_state"`
	CreatedAt        string `json:"created_at"`
}

// ShareInstanceManager manages ShareInstance resources. The whole API
// appeared in 2.3 and is admin-only on the service side.
type ShareInstanceManager struct {
	c *client.Client
}

// List fetches all share instances visible to the caller.
func (m *ShareInstanceManager) List(ctx context.Context) ([]ShareInstance, error) {
	if err := requireVersion(m.c, v2_3, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	var out struct {
		ShareInstances []ShareInstance `json:"share_instances"`
	}
	if err := m.c.Get(ctx, "/share_instances", &out); err != nil {
		return nil, err
	}
	return out.ShareInstances, nil
}

// Get fetches one share instance by ID.
func (m *ShareInstanceManager) Get(ctx context.Context, instanceID string) (*ShareInstance, error) {
	if err := requireVersion(m.c, v2_3, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	var out struct {
		ShareInstance ShareInstance `json:"share_instance"`
	}
	if err := m.c.Get(ctx, "/share_instances/"+instanceID, &out); err != nil {
		return nil, err
	}
	return &out.ShareInstance, nil
}

// ForceDelete removes a share instance regardless of its state.
func (m *ShareInstanceManager) ForceDelete(ctx context.Context, instanceID string) error {
	if err := requireVersion(m.c, v2_3, apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.c.Post(ctx, "/share_instances/"+instanceID+"/action",
		actionBody("force_delete", nil), nil)
}

// ResetState sets the share instance status.
func (m *ShareInstanceManager) ResetState(ctx context.Context, instanceID, state string) error {
	if err := requireVersion(m.c, v2_3, apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.c.Post(ctx, "/share_instances/"+instanceID+"/action",
		actionBody("reset_status", map[string]string{"status": state}), nil)
}
