// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Service is one service process (scheduler, share backend) known to the
// control plane.
type Service struct {
	ID        int    `json:"id"`
	Binary    string `json:"binary"`
	Host      string `json:"host"`
	Zone      string `json:"zone"`
	Status    string `json:"status"`
	State     string `json:"state"`
	UpdatedAt string `json:"updated_at"`
}

// AvailabilityZone is a failure domain shares can be placed in.
type AvailabilityZone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ServiceManager lists and toggles control-plane services.
type ServiceManager struct {
	c *client.Client
}

func (m *ServiceManager) basePath() string {
	if negotiated(m.c).LessThan(v2_7) {
		return "/os-services"
	}
	return "/services"
}

// List fetches all known services.
func (m *ServiceManager) List(ctx context.Context) ([]Service, error) {
	var out struct {
		Services []Service `json:"services"`
	}
	if err := m.c.Get(ctx, m.basePath(), &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// Enable turns a service back on.
func (m *ServiceManager) Enable(ctx context.Context, binary, host string) error {
	return m.c.Put(ctx, m.basePath()+"/enable",
		map[string]string{"binary": binary, "host": host}, nil)
}

// Disable takes a service out of scheduling.
func (m *ServiceManager) Disable(ctx context.Context, binary, host string) error {
	return m.c.Put(ctx, m.basePath()+"/disable",
		map[string]string{"binary": binary, "host": host}, nil)
}

// AvailabilityZoneManager lists availability zones.
type AvailabilityZoneManager struct {
	c *client.Client
}

// List fetches the availability zones shares can be created in.
func (m *AvailabilityZoneManager) List(ctx context.Context) ([]AvailabilityZone, error) {
	path := "/availability-zones"
	if negotiated(m.c).LessThan(v2_7) {
		path = "/os-availability-zone"
	}
	var out struct {
		AvailabilityZones []AvailabilityZone `json:"availability_zones"`
	}
	if err := m.c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.AvailabilityZones, nil
}
