// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"strconv"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Manage project quotas",
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	quotaCmd.AddCommand(quotaShowCmd)
	quotaCmd.AddCommand(quotaDefaultsCmd)
	quotaCmd.AddCommand(quotaSetCmd)
	quotaCmd.AddCommand(quotaDeleteCmd)

	quotaShowCmd.Flags().String("user", "", "Scope to one user within the project")
	quotaDeleteCmd.Flags().String("user", "", "Scope to one user within the project")

	f := quotaSetCmd.Flags()
	f.String("user", "", "Scope to one user within the project")
	f.Int("shares", -1, "Maximum number of shares")
	f.Int("gigabytes", -1, "Maximum total share size in GiB")
	f.Int("snapshots", -1, "Maximum number of snapshots")
	f.Int("snapshot-gigabytes", -1, "Maximum total snapshot size in GiB")
	f.Int("share-networks", -1, "Maximum number of share networks")
	f.Bool("force", false, "Set quotas below current usage")
}

var quotaShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's quota set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		qs, err := sfs.Quotas.Get(cmd.Context(), args[0], user)
		if err != nil {
			return err
		}
		return printQuotaSet(qs)
	},
}

var quotaDefaultsCmd = &cobra.Command{
	Use:   "defaults <project-id>",
	Short: "Show the default quota set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		qs, err := sfs.Quotas.Defaults(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printQuotaSet(qs)
	},
}

var quotaSetCmd = &cobra.Command{
	Use:   "set <project-id>",
	Short: "Update a project's quota set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts v2.QuotaUpdateOpts
		set := func(dst **int, flagName string) {
			if cmd.Flags().Changed(flagName) {
				v, _ := cmd.Flags().GetInt(flagName)
				*dst = &v
			}
		}
		set(&opts.Shares, "shares")
		set(&opts.Gigabytes, "gigabytes")
		set(&opts.Snapshots, "snapshots")
		set(&opts.SnapshotGigabytes, "snapshot-gigabytes")
		set(&opts.ShareNetworks, "share-networks")
		opts.Force, _ = cmd.Flags().GetBool("force")

		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		qs, err := sfs.Quotas.Update(cmd.Context(), args[0], user, opts)
		if err != nil {
			return err
		}
		return printQuotaSet(qs)
	},
}

var quotaDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Reset a project's quota set to the defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		return sfs.Quotas.Delete(cmd.Context(), args[0], user)
	},
}

func printQuotaSet(qs *v2.QuotaSet) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, qs)
	}
	rows := [][]string{
		{"shares", strconv.Itoa(qs.Shares)},
		{"gigabytes", strconv.Itoa(qs.Gigabytes)},
		{"snapshots", strconv.Itoa(qs.Snapshots)},
		{"snapshot_gigabytes", strconv.Itoa(qs.SnapshotGigabytes)},
		{"share_networks", strconv.Itoa(qs.ShareNetworks)},
	}
	return cliutil.Table(os.Stdout, []string{"QUOTA", "LIMIT"}, rows)
}
