// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"

	"github.com/spf13/cobra"
)

var shareGroupCmd = &cobra.Command{
	Use:   "share-group",
	Short: "Manage share groups",
}

func init() {
	rootCmd.AddCommand(shareGroupCmd)
	shareGroupCmd.AddCommand(shareGroupCreateCmd)
	shareGroupCmd.AddCommand(shareGroupListCmd)
	shareGroupCmd.AddCommand(shareGroupShowCmd)
	shareGroupCmd.AddCommand(shareGroupDeleteCmd)
	shareGroupCmd.AddCommand(shareGroupSnapshotCmd)
	shareGroupSnapshotCmd.AddCommand(shareGroupSnapshotCreateCmd)
	shareGroupSnapshotCmd.AddCommand(shareGroupSnapshotListCmd)
	shareGroupSnapshotCmd.AddCommand(shareGroupSnapshotDeleteCmd)

	f := shareGroupCreateCmd.Flags()
	f.String("name", "", "Share group name")
	f.String("description", "", "Share group description")
	f.StringSlice("share-type", nil, "Share type ID, repeatable")
	f.String("share-group-type", "", "Share group type ID")
	f.String("share-network", "", "Share network ID")
	f.String("source-group-snapshot", "", "Create from a share group snapshot")
	f.String("availability-zone", "", "Availability zone")

	f = shareGroupListCmd.Flags()
	f.Bool("all-projects", false, "List share groups of all projects (admin)")
	f.String("status", "", "Filter by status")

	shareGroupDeleteCmd.Flags().Bool("force", false, "Delete regardless of state (admin)")

	f = shareGroupSnapshotCreateCmd.Flags()
	f.String("name", "", "Snapshot name")
	f.String("description", "", "Snapshot description")

	shareGroupSnapshotListCmd.Flags().String("share-group", "", "Filter by share group ID")
	shareGroupSnapshotDeleteCmd.Flags().Bool("force", false, "Delete regardless of state (admin)")
}

var shareGroupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a share group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		group, err := sfs.ShareGroups.Create(cmd.Context(), v2.ShareGroupCreateOpts{
			Name:                  f.String("name"),
			Description:           f.String("description"),
			ShareTypeIDs:          f.StringSlice("share-type"),
			ShareGroupTypeID:      f.String("share-group-type"),
			ShareNetworkID:        f.String("share-network"),
			SourceGroupSnapshotID: f.String("source-group-snapshot"),
			AvailabilityZone:      f.String("availability-zone"),
		})
		if err != nil {
			return err
		}
		return printShareGroup(group)
	},
}

var shareGroupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		groups, err := sfs.ShareGroups.List(cmd.Context(), &v2.ShareGroupListOpts{
			AllTenants: f.Bool("all-projects"),
			Status:     f.String("status"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, groups)
		}
		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{
				g.ID, cliutil.Dash(g.Name), g.Status, cliutil.Dash(g.AvailabilityZone),
			})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "NAME", "STATUS", "AZ"}, rows)
	},
}

var shareGroupShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show share group details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		group, err := sfs.ShareGroups.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printShareGroup(group)
	},
}

var shareGroupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>...",
	Short: "Delete one or more share groups",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		for _, id := range args {
			if err := sfs.ShareGroups.Delete(cmd.Context(), id, force); err != nil {
				return fmt.Errorf("delete share group %s: %w", id, err)
			}
		}
		return nil
	},
}

var shareGroupSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage share group snapshots",
}

var shareGroupSnapshotCreateCmd = &cobra.Command{
	Use:   "create <group-id>",
	Short: "Snapshot a share group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		snap, err := sfs.ShareGroupSnapshots.Create(cmd.Context(), args[0],
			f.String("name"), f.String("description"))
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, snap)
		}
		fmt.Printf("%s %s %s\n", snap.ID, cliutil.Dash(snap.Name), snap.Status)
		return nil
	},
}

var shareGroupSnapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share group snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		snaps, err := sfs.ShareGroupSnapshots.List(cmd.Context(), &v2.ShareGroupSnapshotListOpts{
			ShareGroupID: f.String("share-group"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, snaps)
		}
		rows := make([][]string, 0, len(snaps))
		for _, s := range snaps {
			rows = append(rows, []string{s.ID, cliutil.Dash(s.Name), s.ShareGroupID, s.Status})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "NAME", "GROUP", "STATUS"}, rows)
	},
}

var shareGroupSnapshotDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>...",
	Short: "Delete one or more share group snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		for _, id := range args {
			if err := sfs.ShareGroupSnapshots.Delete(cmd.Context(), id, force); err != nil {
				return fmt.Errorf("delete share group snapshot %s: %w", id, err)
			}
		}
		return nil
	},
}

func printShareGroup(group *v2.ShareGroup) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, group)
	}
	rows := [][]string{
		{"id", group.ID},
		{"name", cliutil.Dash(group.Name)},
		{"status", group.Status},
		{"share_types", cliutil.Dash(strings.Join(group.ShareTypes, ","))},
		{"share_network_id", cliutil.Dash(group.ShareNetworkID)},
		{"availability_zone", cliutil.Dash(group.AvailabilityZone)},
		{"created_at", cliutil.Dash(group.CreatedAt)},
	}
	return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
