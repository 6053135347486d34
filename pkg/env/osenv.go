// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"github.com/spf13/viper"
)

// Cloud carries the standard OS_* settings used to reach an OpenStack cloud.
// Values resolve through viper, so an entry in a config file can stand in for
// the environment variable of the same name.
type Cloud struct {
	AuthURL           string
	Username          string
	Password          string
	ProjectName       string
	ProjectDomainName string
	UserDomainName    string
	RegionName        string

	// AuthToken plus EndpointOverride bypass the identity service entirely.
	AuthToken        string
	EndpointOverride string

	// ShareAPIVersion is the requested microversion, e.g. "2.65". The bare
	// major "2" means the highest 2.x the client supports.
	ShareAPIVersion string
}

// LoadCloud reads the OS_* settings.
func LoadCloud() Cloud {
	return Cloud{
		AuthURL:           viper.GetString("OS_AUTH_URL"),
		Username:          viper.GetString("OS_USERNAME"),
		Password:          viper.GetString("OS_PASSWORD"),
		ProjectName:       viper.GetString("OS_PROJECT_NAME"),
		ProjectDomainName: withDefault(viper.GetString("OS_PROJECT_DOMAIN_NAME"), "Default"),
		UserDomainName:    withDefault(viper.GetString("OS_USER_DOMAIN_NAME"), "Default"),
		RegionName:        viper.GetString("OS_REGION_NAME"),
		AuthToken:         viper.GetString("OS_AUTH_TOKEN"),
		EndpointOverride:  viper.GetString("OS_ENDPOINT_OVERRIDE"),
		ShareAPIVersion:   withDefault(viper.GetString("OS_SHARE_API_VERSION"), "2"),
	}
}

// UsesTokenAuth reports whether the cloud is configured for pre-issued token
// auth instead of a password exchange.
func (c Cloud) UsesTokenAuth() bool {
	return c.AuthToken != "" && c.EndpointOverride != ""
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
