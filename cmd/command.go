// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/manilago/pkg/debug"
	"github.com/LeeDigitalWorks/manilago/pkg/env"
	"github.com/LeeDigitalWorks/manilago/pkg/logger"
	"github.com/LeeDigitalWorks/manilago/pkg/manila"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"
	"github.com/LeeDigitalWorks/manilago/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manilactl",
	Short: "manilactl - OpenStack Shared File Systems CLI",
	Long: `manilactl talks to the OpenStack Shared File Systems (manila) v2 API.
Credentials come from the standard OS_* environment variables, a config file
in the config directory, or the matching --os-* flags.`,
	PersistentPreRun: initializeConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var jsonOutput bool

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	pf.BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	pf.Bool("debug", false, "Enable debug logging")
	pf.String("debug_listen", "", "Serve /metrics and pprof on this address while the command runs")

	pf.String("os_auth_url", "", "Identity endpoint (or set OS_AUTH_URL)")
	pf.String("os_username", "", "Username (or set OS_USERNAME)")
	pf.String("os_password", "", "Password (or set OS_PASSWORD)")
	pf.String("os_project_name", "", "Project name (or set OS_PROJECT_NAME)")
	pf.String("os_project_domain_name", "", "Project domain (or set OS_PROJECT_DOMAIN_NAME)")
	pf.String("os_user_domain_name", "", "User domain (or set OS_USER_DOMAIN_NAME)")
	pf.String("os_region_name", "", "Region (or set OS_REGION_NAME)")
	pf.String("os_auth_token", "", "Pre-issued token (or set OS_AUTH_TOKEN)")
	pf.String("os_endpoint_override", "", "Share endpoint, skips catalog lookup (or set OS_ENDPOINT_OVERRIDE)")
	pf.String("os_share_api_version", "", "Requested API microversion (or set OS_SHARE_API_VERSION)")
}

func initializeConfig(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration("manilactl", false)

	// ENV is read after config load so a config-file entry takes effect.
	switch {
	case env.IsProduction():
		logger.UseJSON()
	case env.IsTesting():
		logger.SetLevel(zerolog.DebugLevel)
	}

	if debugLog, _ := cmd.Flags().GetBool("debug"); debugLog {
		logger.SetLevel(zerolog.DebugLevel)
	}

	if addr, _ := cmd.Flags().GetString("debug_listen"); addr != "" {
		go func() {
			if err := debug.Serve(addr); err != nil {
				log.Warn().Err(err).Str("addr", addr).Msg("diagnostics listener stopped")
			}
		}()
	}
}

// openClient resolves the cloud settings (flags over env over config file)
// and returns an authenticated, version-negotiated client.
func openClient(cmd *cobra.Command) (*v2.Client, error) {
	cloud := loadCloud(cmd)
	return manila.Open(cmd.Context(), cloud)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
