// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
)

func TestShareGroupExperimentalHeader(t *testing.T) {
	// Between 2.31 and 2.54 the group APIs require the experimental opt-in.
	sfs, got := newFakeService(t, "2.40", http.StatusOK,
		`{"share_group": {"id": "g1", "name": "batch", "status": "creating"}}`)

	group, err := sfs.ShareGroups.Create(context.Background(), ShareGroupCreateOpts{Name: "batch"})
	require.NoError(t, err)
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "true", got.Header.Get("X-OpenStack-Manila-API-Experimental"))
	assert.Equal(t, "2.40", got.Header.Get("X-OpenStack-Manila-API-Version"))

	// From 2.55 the family graduated and the header is no longer sent.
	sfs, got = newFakeService(t, "2.55", http.StatusOK,
		`{"share_group": {"id": "g1"}}`)
	_, err = sfs.ShareGroups.Create(context.Background(), ShareGroupCreateOpts{Name: "batch"})
	require.NoError(t, err)
	assert.Empty(t, got.Header.Get("X-OpenStack-Manila-API-Experimental"))
}

func TestShareGroupGatedAt231(t *testing.T) {
	sfs, _ := newFakeService(t, "2.30", http.StatusOK, `{"share_groups": []}`)

	_, err := sfs.ShareGroups.List(context.Background(), nil)
	var nse *apiversions.NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, "2.31", nse.Min.String())
}

func TestShareGroupDeleteForce(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusAccepted, `{}`)

	require.NoError(t, sfs.ShareGroups.Delete(context.Background(), "g1", false))
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/v2/demo/share-groups/g1", got.Path)

	require.NoError(t, sfs.ShareGroups.Delete(context.Background(), "g1", true))
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/v2/demo/share-groups/g1/action", got.Path)
	_, ok := got.Body["force_delete"]
	assert.True(t, ok)
}

func TestShareGroupReplicasAlwaysExperimental(t *testing.T) {
	// 2.56 never graduated, so the opt-in header stays even at MaxVersion.
	sfs, got := newFakeService(t, apiversions.MaxVersion.String(), http.StatusOK,
		`{"share_group_replicas": [{"id": "r1", "replica_state": "in_sync"}]}`)

	replicas, err := sfs.ShareGroupReplicas.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, replicas, 1)
	assert.Equal(t, "in_sync", replicas[0].ReplicaState)
	assert.Equal(t, "true", got.Header.Get("X-OpenStack-Manila-API-Experimental"))
	assert.Equal(t, "/v2/demo/share-group-replicas/detail", got.Path)
}

func TestShareGroupReplicaResetReplicaStateWindow(t *testing.T) {
	// reset_replica_state predates the rest of the group replica API.
	sfs, got := newFakeService(t, "2.11", http.StatusAccepted, `{}`)
	err := sfs.ShareGroupReplicas.ResetReplicaState(context.Background(), "r1", "out_of_sync")
	require.NoError(t, err)
	payload := got.Body["reset_replica_state"].(map[string]any)
	assert.Equal(t, "out_of_sync", payload["replica_state"])

	sfs, _ = newFakeService(t, "2.10", http.StatusAccepted, `{}`)
	err = sfs.ShareGroupReplicas.ResetReplicaState(context.Background(), "r1", "out_of_sync")
	var nse *apiversions.NotSupportedError
	require.ErrorAs(t, err, &nse)
}

func TestShareGroupSnapshotMembers(t *testing.T) {
	sfs, got := newFakeService(t, "2.40", http.StatusOK,
		`{"share_group_snapshot": {"id": "gs1", "share_group_id": "g1", "status": "available"}}`)

	snap, err := sfs.ShareGroupSnapshots.Create(context.Background(), "g1", "nightly", "")
	require.NoError(t, err)
	assert.Equal(t, "gs1", snap.ID)
	payload := got.Body["share_group_snapshot"].(map[string]any)
	assert.Equal(t, "g1", payload["share_group_id"])
	assert.Equal(t, "nightly", payload["name"])
}

func TestShareGroupInstanceActions(t *testing.T) {
	sfs, got := newFakeService(t, apiversions.MaxVersion.String(), http.StatusAccepted, `{}`)

	require.NoError(t, sfs.ShareGroupInstances.ResetState(context.Background(), "gi1", "error"))
	assert.Equal(t, "/v2/demo/share-group-instances/gi1/action", got.Path)
	payload := got.Body["reset_status"].(map[string]any)
	assert.Equal(t, "error", payload["status"])

	sfs, _ = newFakeService(t, "2.55", http.StatusAccepted, `{}`)
	err := sfs.ShareGroupInstances.ForceDelete(context.Background(), "gi1")
	var nse *apiversions.NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, "2.56", nse.Min.String())
}
