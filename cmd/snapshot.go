// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage share snapshots",
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	snapshotCmd.AddCommand(snapshotResetStateCmd)
	snapshotCmd.AddCommand(snapshotAccessCmd)
	snapshotAccessCmd.AddCommand(snapshotAccessAllowCmd)
	snapshotAccessCmd.AddCommand(snapshotAccessDenyCmd)
	snapshotAccessCmd.AddCommand(snapshotAccessListCmd)

	f := snapshotCreateCmd.Flags()
	f.String("name", "", "Snapshot name")
	f.String("description", "", "Snapshot description")
	f.Bool("force", false, "Snapshot a share in a transitional state")

	f = snapshotListCmd.Flags()
	f.Bool("all-projects", false, "List snapshots of all projects (admin)")
	f.String("share", "", "Filter by share ID")
	f.String("status", "", "Filter by status")

	snapshotDeleteCmd.Flags().Bool("force", false, "Delete regardless of state (admin)")
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create <share-id>",
	Short: "Snapshot a share",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		snap, err := sfs.Snapshots.Create(cmd.Context(), v2.SnapshotCreateOpts{
			ShareID:     args[0],
			Name:        f.String("name"),
			Description: f.String("description"),
			Force:       f.Bool("force"),
		})
		if err != nil {
			return err
		}
		return printSnapshot(snap)
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		snaps, err := sfs.Snapshots.List(cmd.Context(), &v2.SnapshotListOpts{
			AllTenants: f.Bool("all-projects"),
			ShareID:    f.String("share"),
			Status:     f.String("status"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, snaps)
		}
		rows := make([][]string, 0, len(snaps))
		for _, s := range snaps {
			rows = append(rows, []string{
				s.ID, cliutil.Dash(s.Name), s.ShareID,
				cliutil.Gigabytes(s.Size), s.Status,
			})
		}
		return cliutil.Table(os.Stdout,
			[]string{"ID", "NAME", "SHARE", "SIZE", "STATUS"}, rows)
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Show snapshot details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		snap, err := sfs.Snapshots.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printSnapshot(snap)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>...",
	Short: "Delete one or more snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		for _, id := range args {
			if force {
				err = sfs.Snapshots.ForceDelete(cmd.Context(), id)
			} else {
				err = sfs.Snapshots.Delete(cmd.Context(), id)
			}
			if err != nil {
				return fmt.Errorf("delete snapshot %s: %w", id, err)
			}
		}
		return nil
	},
}

var snapshotResetStateCmd = &cobra.Command{
	Use:   "reset-state <snapshot-id> <state>",
	Short: "Set the snapshot status directly (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Snapshots.ResetState(cmd.Context(), args[0], args[1])
	},
}

var snapshotAccessCmd = &cobra.Command{
	Use:   "access",
	Short: "Manage snapshot access rules",
}

var snapshotAccessAllowCmd = &cobra.Command{
	Use:   "allow <snapshot-id> <type> <access-to>",
	Short: "Grant access to a snapshot (type: ip, user, or cert)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		rule, err := sfs.Snapshots.Allow(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, rule)
		}
		fmt.Printf("%s %s %s %s\n", rule.ID, rule.AccessType, rule.AccessTo, cliutil.Dash(rule.State))
		return nil
	},
}

var snapshotAccessDenyCmd = &cobra.Command{
	Use:   "deny <snapshot-id> <access-id>",
	Short: "Revoke a snapshot access rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Snapshots.Deny(cmd.Context(), args[0], args[1])
	},
}

var snapshotAccessListCmd = &cobra.Command{
	Use:   "list <snapshot-id>",
	Short: "List access rules of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		rules, err := sfs.Snapshots.AccessList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, rules)
		}
		rows := make([][]string, 0, len(rules))
		for _, r := range rules {
			rows = append(rows, []string{r.ID, r.AccessType, r.AccessTo, cliutil.Dash(r.State)})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "TYPE", "ACCESS_TO", "STATE"}, rows)
	},
}

func printSnapshot(snap *v2.Snapshot) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, snap)
	}
	rows := [][]string{
		{"id", snap.ID},
		{"share_id", snap.ShareID},
		{"name", cliutil.Dash(snap.Name)},
		{"status", snap.Status},
		{"size", cliutil.Gigabytes(snap.Size)},
		{"created_at", cliutil.Dash(snap.CreatedAt)},
	}
	return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
