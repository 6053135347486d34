// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"github.com/spf13/viper"
)

// Runtime environments. Production forces structured log output; Testing
// raises log verbosity.
const (
	Local      = "local"
	Production = "production"
	Testing    = "testing"
)

// Mode returns the runtime environment from the ENV setting (environment
// variable or config file entry). Resolved through viper on every call so it
// reflects config files loaded after process start. Unknown values fall back
// to Local.
func Mode() string {
	switch m := viper.GetString("ENV"); m {
	case Production, Testing:
		return m
	default:
		return Local
	}
}

func IsLocal() bool {
	return Mode() == Local
}

func IsProduction() bool {
	return Mode() == Production
}

func IsTesting() bool {
	return Mode() == Testing
}
