// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestModeFromEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{name: "unset defaults to local", env: "", want: Local},
		{name: "production", env: "production", want: Production},
		{name: "testing", env: "testing", want: Testing},
		{name: "unknown falls back to local", env: "staging", want: Local},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENV", tc.env)
			viper.AutomaticEnv()
			assert.Equal(t, tc.want, Mode())
		})
	}
}

func TestModeReadAfterConfigLoad(t *testing.T) {
	// Mode resolves through viper on every call, so a value set during
	// config loading is picked up without process restart.
	viper.Set("ENV", Production)
	t.Cleanup(func() { viper.Set("ENV", "") })

	assert.True(t, IsProduction())
	assert.False(t, IsLocal())
	assert.False(t, IsTesting())
}
