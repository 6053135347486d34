// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package v2

import (
	"context"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Message is an asynchronous user message explaining why an operation on a
// resource failed. Available from 2.37.
type Message struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	ActionID     string `json:"action_id"`
	DetailID     string `json:"detail_id"`
	UserMessage  string `json:"user_message"`
	MessageLevel string `json:"message_level"`
	CreatedAt    string `json:"created_at"`
	ExpiresAt    string `json:"expires_at"`
}

// MessageListOpts filter message listings.
type MessageListOpts struct {
	ResourceType string
	ResourceID   string
	ActionID     string
	MessageLevel string
	Limit        int
	Offset       int
	SortKey      string
	SortDir      string
}

var messageSortKeys = []string{
	"id", "project_id", "request_id", "resource_type", "action_id",
	"detail_id", "resource_id", "message_level", "expires_at", "created_at",
}

// MessageManager manages user messages.
type MessageManager struct {
	c *client.Client
}

// Get fetches one message by ID.
func (m *MessageManager) Get(ctx context.Context, messageID string) (*Message, error) {
	if err := requireVersion(m.c, v2_37, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	var out struct {
		Message Message `json:"message"`
	}
	if err := m.c.Get(ctx, "/messages/"+messageID, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}

// List fetches messages.
func (m *MessageManager) List(ctx context.Context, opts *MessageListOpts) ([]Message, error) {
	if err := requireVersion(m.c, v2_37, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &MessageListOpts{}
	}
	q := newQuery().
		Set("resource_type", opts.ResourceType).
		Set("resource_id", opts.ResourceID).
		Set("action_id", opts.ActionID).
		Set("message_level", opts.MessageLevel).
		SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset)
	if err := q.SetSort(opts.SortKey, opts.SortDir, messageSortKeys, nil); err != nil {
		return nil, err
	}

	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := m.c.Get(ctx, "/messages", &out, client.WithQuery(q.Values())); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Delete removes a message.
func (m *MessageManager) Delete(ctx context.Context, messageID string) error {
	if err := requireVersion(m.c, v2_37, apiversions.APIVersion{}); err != nil {
		return err
	}
	return m.c.Delete(ctx, "/messages/"+messageID)
}
