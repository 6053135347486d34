// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"strconv"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"

	"github.com/spf13/cobra"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage control-plane services (admin)",
}

var azCmd = &cobra.Command{
	Use:     "availability-zone",
	Aliases: []string{"az"},
	Short:   "List availability zones",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		zones, err := sfs.AvailabilityZones.List(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, zones)
		}
		rows := make([][]string, 0, len(zones))
		for _, z := range zones {
			rows = append(rows, []string{z.ID, z.Name, cliutil.Dash(z.CreatedAt)})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "NAME", "CREATED_AT"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(azCmd)
	serviceCmd.AddCommand(serviceListCmd)
	serviceCmd.AddCommand(serviceEnableCmd)
	serviceCmd.AddCommand(serviceDisableCmd)
}

var serviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		services, err := sfs.Services.List(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, services)
		}
		rows := make([][]string, 0, len(services))
		for _, s := range services {
			rows = append(rows, []string{
				strconv.Itoa(s.ID), s.Binary, s.Host,
				cliutil.Dash(s.Zone), s.Status, s.State,
			})
		}
		return cliutil.Table(os.Stdout,
			[]string{"ID", "BINARY", "HOST", "ZONE", "STATUS", "STATE"}, rows)
	},
}

var serviceEnableCmd = &cobra.Command{
	Use:   "enable <binary> <host>",
	Short: "Enable a service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Services.Enable(cmd.Context(), args[0], args[1])
	},
}

var serviceDisableCmd = &cobra.Command{
	Use:   "disable <binary> <host>",
	Short: "Disable a service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Services.Disable(cmd.Context(), args[0], args[1])
	},
}
