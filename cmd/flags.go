// Package cmd implements the manilactl command tree.
// This file contains reusable helpers for configuration loading with CLI flag precedence.
package cmd

import (
	"github.com/LeeDigitalWorks/manilago/pkg/env"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagLoader provides methods for loading configuration values with CLI flag precedence.
// When a CLI flag is explicitly set, it takes precedence over config file and env vars.
// Otherwise, viper's standard priority applies: env > config file > default.
type FlagLoader struct {
	cmd *cobra.Command
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd}
}

// String returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) String(flagName string) string {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetString(flagName)
		return val
	}
	return viper.GetString(flagName)
}

// Int returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Int(flagName string) int {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetInt(flagName)
		return val
	}
	return viper.GetInt(flagName)
}

// Bool returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Bool(flagName string) bool {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetBool(flagName)
		return val
	}
	return viper.GetBool(flagName)
}

// StringSlice returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) StringSlice(flagName string) []string {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetStringSlice(flagName)
		return val
	}
	return viper.GetStringSlice(flagName)
}

// loadCloud starts from the OS_* environment and overlays any --os-* flags
// the caller set explicitly.
func loadCloud(cmd *cobra.Command) env.Cloud {
	cloud := env.LoadCloud()
	f := NewFlagLoader(cmd)

	override := func(dst *string, flagName string) {
		if cmd.Flags().Changed(flagName) {
			*dst = f.String(flagName)
		}
	}
	override(&cloud.AuthURL, "os_auth_url")
	override(&cloud.Username, "os_username")
	override(&cloud.Password, "os_password")
	override(&cloud.ProjectName, "os_project_name")
	override(&cloud.ProjectDomainName, "os_project_domain_name")
	override(&cloud.UserDomainName, "os_user_domain_name")
	override(&cloud.RegionName, "os_region_name")
	override(&cloud.AuthToken, "os_auth_token")
	override(&cloud.EndpointOverride, "os_endpoint_override")
	override(&cloud.ShareAPIVersion, "os_share_api_version")
	return cloud
}
