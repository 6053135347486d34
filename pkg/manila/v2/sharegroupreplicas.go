// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// ShareGroupReplica is a replica of a whole share group. The API is
// experimental, available from 2.56.
type ShareGroupReplica struct {
	ID           string `json:"id"`
	ShareGroupID string `json:"share_group_id"`
	Status       string `json:"status"`
	ReplicaState string `json:"replica_state"`
	Host         string `json:"host"`
	ProjectID    string `json:"project_id"`
	CreatedAt    string `json:"created_at"`
}

// ShareGroupReplicaListOpts filter and order group replica listings.
type ShareGroupReplicaListOpts struct {
	AllTenants   bool
	Name         string
	Status       string
	ShareGroupID string
	Limit        int
	Offset       int
	SortKey      string
	SortDir      string
}

var shareGroupReplicaSortKeys = []string{
	"id", "name", "status", "host", "user_id", "project_id",
	"created_at", "updated_at", "share_group_id", "replica_state",
}

// ShareGroupReplicaManager manages ShareGroupReplica resources.
type ShareGroupReplicaManager struct {
	c *client.Client
}

// Create replicates a share group.
func (m *ShareGroupReplicaManager) Create(ctx context.Context, shareGroupID string) (*ShareGroupReplica, error) {
	reqOpts, err := experimentalOptions(m.c, v2_56)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"share_group_replica": map[string]any{
			"share_group_id": shareGroupID,
		},
	}
	var out struct {
		ShareGroupReplica ShareGroupReplica `json:"share_group_replica"`
	}
	if err := m.c.Post(ctx, "/share-group-replicas", body, &out, reqOpts...); err != nil {
		return nil, err
	}
	return &out.ShareGroupReplica, nil
}

// Get fetches one share group replica by ID.
func (m *ShareGroupReplicaManager) Get(ctx context.Context, replicaID string) (*ShareGroupReplica, error) {
	reqOpts, err := experimentalOptions(m.c, v2_56)
	if err != nil {
		return nil, err
	}
	var out struct {
		ShareGroupReplica ShareGroupReplica `json:"share_group_replica"`
	}
	if err := m.c.Get(ctx, "/share-group-replicas/"+replicaID, &out, reqOpts...); err != nil {
		return nil, err
	}
	return &out.ShareGroupReplica, nil
}

// List fetches detailed group replica listings.
func (m *ShareGroupReplicaManager) List(ctx context.Context, opts *ShareGroupReplicaListOpts) ([]ShareGroupReplica, error) {
	if opts == nil {
		opts = &ShareGroupReplicaListOpts{}
	}
	q := newQuery().
		SetBool("all_tenants", opts.AllTenants).
		Set("name", opts.Name).
		Set("status", opts.Status).
		Set("share_group_id", opts.ShareGroupID).
		SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset)
	if err := q.SetSort(opts.SortKey, opts.SortDir, shareGroupReplicaSortKeys, nil); err != nil {
		return nil, err
	}
	reqOpts, err := experimentalOptions(m.c, v2_56, client.WithQuery(q.Values()))
	if err != nil {
		return nil, err
	}

	var out struct {
		ShareGroupReplicas []ShareGroupReplica `json:"share_group_replicas"`
	}
	if err := m.c.Get(ctx, "/share-group-replicas/detail", &out, reqOpts...); err != nil {
		return nil, err
	}
	return out.ShareGroupReplicas, nil
}

// Delete removes a share group replica; force deletes regardless of state.
func (m *ShareGroupReplicaManager) Delete(ctx context.Context, replicaID string, force bool) error {
	reqOpts, err := experimentalOptions(m.c, v2_56)
	if err != nil {
		return err
	}
	if force {
		return m.c.Post(ctx, "/share-group-replicas/"+replicaID+"/action",
			actionBody("force_delete", nil), nil, reqOpts...)
	}
	return m.c.Delete(ctx, "/share-group-replicas/"+replicaID, reqOpts...)
}

// ResetState sets the group replica status.
func (m *ShareGroupReplicaManager) ResetState(ctx context.Context, replicaID, state string) error {
	return m.action(ctx, replicaID, v2_56, "reset_status", map[string]string{"status": state})
}

// Promote makes the replica the active group.
func (m *ShareGroupReplicaManager) Promote(ctx context.Context, replicaID string) error {
	return m.action(ctx, replicaID, v2_56, "promote", nil)
}

// Resync forces a resynchronization of the replica.
func (m *ShareGroupReplicaManager) Resync(ctx context.Context, replicaID string) error {
	return m.action(ctx, replicaID, v2_56, "resync", nil)
}

// ResetReplicaState sets the group replica replica_state. Unlike the rest of
// the group replica API this action is accepted from 2.11, where share
// replication first appeared.
func (m *ShareGroupReplicaManager) ResetReplicaState(ctx context.Context, replicaID, replicaState string) error {
	return m.action(ctx, replicaID, v2_11, "reset_replica_state",
		map[string]string{"replica_state": replicaState})
}

func (m *ShareGroupReplicaManager) action(ctx context.Context, replicaID string, min apiversions.APIVersion, action string, info any) error {
	reqOpts, err := experimentalOptions(m.c, min)
	if err != nil {
		return err
	}
	return m.c.Post(ctx, "/share-group-replicas/"+replicaID+"/action",
		actionBody(action, info), nil, reqOpts...)
}
