// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr string
	}{
		{name: "empty", pairs: nil, want: nil},
		{
			name:  "pairs",
			pairs: []string{"tier=gold", "owner=web"},
			want:  map[string]string{"tier": "gold", "owner": "web"},
		},
		{
			name:  "empty value allowed",
			pairs: []string{"tier="},
			want:  map[string]string{"tier": ""},
		},
		{
			name:  "value keeps extra equals",
			pairs: []string{"conn=proto=tcp;port=2049"},
			want:  map[string]string{"conn": "proto=tcp;port=2049"},
		},
		{name: "no equals", pairs: []string{"tier"}, wantErr: "key=value"},
		{name: "empty key", pairs: []string{"=gold"}, wantErr: "key=value"},
		{name: "duplicate", pairs: []string{"tier=gold", "tier=silver"}, wantErr: "more than once"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProperties(tc.pairs)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatProperties(t *testing.T) {
	t.Parallel()
	assert.Empty(t, FormatProperties(nil))
	assert.Equal(t, "a=1 b=2", FormatProperties(map[string]string{"b": "2", "a": "1"}))
}

func TestGigabytes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "10 GiB", Gigabytes(10))
	assert.Equal(t, "1.0 TiB", Gigabytes(1024))
}

func TestTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := Table(&buf, []string{"ID", "NAME"}, [][]string{
		{"s1", "wwwdata"},
		{"s2", Dash("")},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "wwwdata")
	assert.Contains(t, out, "-")
}
