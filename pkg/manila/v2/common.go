// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package v2 holds the resource managers of the Shared File Systems v2 API.
// Managers are thin: they assemble paths, query strings and action bodies and
// hand the wire work to pkg/manila/client.
package v2

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/client"
)

// Sort directions accepted by every list call.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Microversion boundaries referenced across managers.
var (
	// v2_7 is where the os- action prefixes and legacy manage/unmanage
	// paths were retired.
	v2_7 = apiversions.MustParse("2.7")

	v2_3  = apiversions.MustParse("2.3")
	v2_11 = apiversions.MustParse("2.11")
	v2_12 = apiversions.MustParse("2.12")
	v2_31 = apiversions.MustParse("2.31")
	v2_32 = apiversions.MustParse("2.32")
	v2_37 = apiversions.MustParse("2.37")
	v2_55 = apiversions.MustParse("2.55")
	v2_56 = apiversions.MustParse("2.56")
)

// negotiated returns the version the transport is pinned to, falling back to
// the client minimum when negotiation was skipped.
func negotiated(c *client.Client) apiversions.APIVersion {
	v := c.Microversion()
	if v.IsNull() {
		return apiversions.MinVersion
	}
	return v
}

// requireVersion gates an operation on [min, max]. A null max means
// open-ended.
func requireVersion(c *client.Client, min, max apiversions.APIVersion) error {
	v := negotiated(c)
	if !v.Matches(min, max) {
		return &apiversions.NotSupportedError{Negotiated: v, Min: min, Max: max}
	}
	return nil
}

// experimentalOptions gates an always-experimental API on its minimum
// version and adds the experimental header.
func experimentalOptions(c *client.Client, min apiversions.APIVersion, extra ...client.RequestOption) ([]client.RequestOption, error) {
	if err := requireVersion(c, min, apiversions.APIVersion{}); err != nil {
		return nil, err
	}
	return append(extra, client.Experimental()), nil
}

// queryBuilder accumulates non-empty query parameters. Keys are emitted in
// sorted order so request URLs are deterministic.
type queryBuilder struct {
	values url.Values
}

func newQuery() *queryBuilder {
	return &queryBuilder{values: url.Values{}}
}

func (q *queryBuilder) Set(key, value string) *queryBuilder {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

func (q *queryBuilder) SetInt(key string, value int) *queryBuilder {
	if value != 0 {
		q.values.Set(key, strconv.Itoa(value))
	}
	return q
}

func (q *queryBuilder) SetBool(key string, value bool) *queryBuilder {
	if value {
		q.values.Set(key, "true")
	}
	return q
}

// SetSort validates and records sort_key/sort_dir. allowed is the
// per-resource sort-key set; aliases maps accepted aliases onto real keys.
func (q *queryBuilder) SetSort(sortKey, sortDir string, allowed []string, aliases map[string]string) error {
	if sortKey != "" {
		if real, ok := aliases[sortKey]; ok {
			sortKey = real
		}
		if !contains(allowed, sortKey) {
			return fmt.Errorf("sort_key must be one of the following: %s", joinSorted(allowed))
		}
		q.values.Set("sort_key", sortKey)
	}
	if sortDir != "" {
		if sortDir != SortAsc && sortDir != SortDesc {
			return fmt.Errorf("sort_dir must be one of the following: %s, %s", SortAsc, SortDesc)
		}
		q.values.Set("sort_dir", sortDir)
	}
	return nil
}

func (q *queryBuilder) Values() url.Values {
	if len(q.values) == 0 {
		return nil
	}
	return q.values
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func joinSorted(set []string) string {
	sorted := append([]string(nil), set...)
	sort.Strings(sorted)
	out := ""
	for i, s := range sorted {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// actionBody is the envelope for POST <resource>/<id>/action calls.
func actionBody(action string, info any) map[string]any {
	return map[string]any{action: info}
}
