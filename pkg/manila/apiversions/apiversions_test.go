// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package apiversions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    APIVersion
		wantErr bool
	}{
		{name: "simple", input: "2.0", want: APIVersion{2, 0}},
		{name: "double digit minor", input: "2.65", want: APIVersion{2, 65}},
		{name: "v1", input: "1.0", want: APIVersion{1, 0}},
		{name: "bare major", input: "2", wantErr: true},
		{name: "leading zero minor", input: "2.01", wantErr: true},
		{name: "zero major", input: "0.5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "two.five", wantErr: true},
		{name: "trailing", input: "2.5.1", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	v, err := Normalize("")
	require.NoError(t, err)
	assert.Equal(t, MaxVersion, v)

	v, err = Normalize("2")
	require.NoError(t, err)
	assert.Equal(t, MaxVersion, v)

	v, err = Normalize("1")
	require.NoError(t, err)
	assert.Equal(t, APIVersion{1, 0}, v)

	v, err = Normalize("2.7")
	require.NoError(t, err)
	assert.Equal(t, APIVersion{2, 7}, v)

	_, err = Normalize("banana")
	require.Error(t, err)
}

func TestCompareAndMatches(t *testing.T) {
	t.Parallel()

	low := MustParse("2.5")
	high := MustParse("2.40")

	assert.True(t, low.LessThan(high))
	assert.True(t, high.GreaterThan(low))
	assert.True(t, low.LessThanOrEqual(MustParse("2.5")))
	assert.True(t, low.Equals(MustParse("2.5")))
	assert.Equal(t, -1, MustParse("1.0").Compare(low))

	// Numeric ordering, not lexical: 2.9 < 2.10.
	assert.True(t, MustParse("2.9").LessThan(MustParse("2.10")))

	assert.True(t, MustParse("2.7").Matches(MustParse("2.5"), MustParse("2.10")))
	assert.False(t, MustParse("2.4").Matches(MustParse("2.5"), MustParse("2.10")))
	assert.True(t, MustParse("2.60").Matches(MustParse("2.5"), APIVersion{}))
	assert.False(t, APIVersion{}.Matches(MustParse("2.5"), APIVersion{}))
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	modern := ServerVersion{ID: "v2.0", Version: "2.50", MinVersion: "2.0"}

	tests := []struct {
		name      string
		requested APIVersion
		server    ServerVersion
		want      APIVersion
		wantErr   error
	}{
		{
			name:      "requested within server range",
			requested: MustParse("2.7"),
			server:    modern,
			want:      MustParse("2.7"),
		},
		{
			name:      "server caps the request",
			requested: MaxVersion,
			server:    modern,
			want:      MustParse("2.50"),
		},
		{
			name:      "null request means max",
			requested: APIVersion{},
			server:    ServerVersion{Version: "2.65", MinVersion: "2.0"},
			want:      MaxVersion,
		},
		{
			name:      "v1 alias negotiates to 2.0",
			requested: MustParse("1.0"),
			server:    modern,
			want:      MustParse("2.0"),
		},
		{
			name:      "pre-microversion server",
			requested: MustParse("2.22"),
			server:    ServerVersion{ID: "v2.0"},
			want:      MustParse("2.0"),
		},
		{
			name:      "request below server min",
			requested: MustParse("2.4"),
			server:    ServerVersion{Version: "2.50", MinVersion: "2.10"},
			wantErr:   ErrOutOfRange,
		},
		{
			name:      "request above client max clamps to client max",
			requested: MustParse("2.99"),
			server:    ServerVersion{Version: "2.99", MinVersion: "2.0"},
			want:      MaxVersion,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Negotiate(tc.requested, tc.server)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("malformed server document", func(t *testing.T) {
		t.Parallel()
		_, err := Negotiate(MaxVersion, ServerVersion{Version: "nope", MinVersion: "2.0"})
		require.Error(t, err)
	})
}

func TestNotSupportedError(t *testing.T) {
	t.Parallel()

	err := &NotSupportedError{Negotiated: MustParse("2.5"), Min: MustParse("2.56")}
	assert.Contains(t, err.Error(), "2.56 or later")

	err = &NotSupportedError{Negotiated: MustParse("2.40"), Min: MustParse("2.5"), Max: MustParse("2.6")}
	assert.Contains(t, err.Error(), "2.5-2.6")
}
