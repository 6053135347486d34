// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Client bundles the resource managers over one shared transport.
type Client struct {
	Shares                      *ShareManager
	ShareInstances              *ShareInstanceManager
	Snapshots                   *SnapshotManager
	ShareNetworks               *ShareNetworkManager
	ShareTypes                  *ShareTypeManager
	Quotas                      *QuotaManager
	Services                    *ServiceManager
	AvailabilityZones           *AvailabilityZoneManager
	Messages                    *MessageManager
	ShareGroups                 *ShareGroupManager
	ShareGroupSnapshots         *ShareGroupSnapshotManager
	ShareGroupInstances         *ShareGroupInstanceManager
	ShareGroupReplicas          *ShareGroupReplicaManager
	ShareGroupSnapshotInstances *ShareGroupSnapshotInstanceManager

	transport *client.Client
}

// NewClient builds the manager set on top of an existing transport.
func NewClient(c *client.Client) *Client {
	return &Client{
		Shares:                      &ShareManager{c: c},
		ShareInstances:              &ShareInstanceManager{c: c},
		Snapshots:                   &SnapshotManager{c: c},
		ShareNetworks:               &ShareNetworkManager{c: c},
		ShareTypes:                  &ShareTypeManager{c: c},
		Quotas:                      &QuotaManager{c: c},
		Services:                    &ServiceManager{c: c},
		AvailabilityZones:           &AvailabilityZoneManager{c: c},
		Messages:                    &MessageManager{c: c},
		ShareGroups:                 &ShareGroupManager{c: c},
		ShareGroupSnapshots:         &ShareGroupSnapshotManager{c: c},
		ShareGroupInstances:         &ShareGroupInstanceManager{c: c},
		ShareGroupReplicas:          &ShareGroupReplicaManager{c: c},
		ShareGroupSnapshotInstances: &ShareGroupSnapshotInstanceManager{c: c},
		transport:                   c,
	}
}

// APIVersion returns the microversion the transport is pinned to.
func (c *Client) APIVersion() apiversions.APIVersion {
	return negotiated(c.transport)
}

// Transport exposes the underlying HTTP client for callers that need raw
// access (probing, metrics endpoints).
func (c *Client) Transport() *client.Client {
	return c.transport
}
