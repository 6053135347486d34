// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cliutil holds small helpers shared by the manilactl commands:
// key=value parsing, tabular and JSON rendering, size formatting.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// ParseProperties turns repeated key=value flags into a map. A key given
// twice is an error rather than a silent overwrite.
func ParseProperties(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("property %q is not in key=value form", pair)
		}
		if _, dup := props[key]; dup {
			return nil, fmt.Errorf("property %q given more than once", key)
		}
		props[key] = value
	}
	return props, nil
}

// FormatProperties renders a map as "k1=v1 k2=v2" with stable key order.
func FormatProperties(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+props[k])
	}
	return strings.Join(parts, " ")
}

// Gigabytes renders a share size the way the service accounts it.
func Gigabytes(n int) string {
	return humanize.IBytes(uint64(n) * humanize.GiByte)
}

// WriteJSON pretty-prints v for --json output.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows under a header with aligned columns.
func Table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Dash substitutes a placeholder for empty cell values.
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
