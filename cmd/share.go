// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"
	v2 "github.com/LeeDigitalWorks/manilago/pkg/manila/v2"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage shares",
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareCreateCmd)
	shareCmd.AddCommand(shareListCmd)
	shareCmd.AddCommand(shareShowCmd)
	shareCmd.AddCommand(shareDeleteCmd)
	shareCmd.AddCommand(shareExtendCmd)
	shareCmd.AddCommand(shareShrinkCmd)
	shareCmd.AddCommand(shareResetStateCmd)
	shareCmd.AddCommand(shareMigrateCmd)
	shareCmd.AddCommand(shareManageCmd)
	shareCmd.AddCommand(shareUnmanageCmd)
	shareCmd.AddCommand(shareSetCmd)
	shareCmd.AddCommand(shareUnsetCmd)
	shareCmd.AddCommand(shareAccessCmd)
	shareAccessCmd.AddCommand(shareAccessAllowCmd)
	shareAccessCmd.AddCommand(shareAccessDenyCmd)
	shareAccessCmd.AddCommand(shareAccessListCmd)

	f := shareCreateCmd.Flags()
	f.String("name", "", "Share name")
	f.String("description", "", "Share description")
	f.String("snapshot", "", "Source snapshot ID")
	f.String("share-network", "", "Share network ID")
	f.String("share-type", "", "Share type name or ID")
	f.String("share-group", "", "Share group ID")
	f.String("availability-zone", "", "Availability zone")
	f.Bool("public", false, "Make the share visible to all projects")
	f.StringSlice("property", nil, "Metadata key=value, repeatable")

	f = shareListCmd.Flags()
	f.Bool("all-projects", false, "List shares of all projects (admin)")
	f.String("name", "", "Filter by name")
	f.String("status", "", "Filter by status")
	f.String("share-network", "", "Filter by share network ID")
	f.String("share-group", "", "Filter by share group ID")
	f.Int("limit", 0, "Maximum number of shares")
	f.String("sort-key", "", "Sort key")
	f.String("sort-dir", "", "Sort direction (asc or desc)")

	f = shareDeleteCmd.Flags()
	f.Bool("force", false, "Delete regardless of state (admin)")
	f.String("share-group", "", "Share group the share belongs to")

	shareAccessAllowCmd.Flags().String("access-level", "", "rw or ro (default rw on the service side)")

	shareMigrateCmd.Flags().Bool("force-host-copy", false, "Force a host-assisted copy")

	f = shareManageCmd.Flags()
	f.String("name", "", "Share name")
	f.String("description", "", "Share description")
	f.String("share-type", "", "Share type name or ID")
	f.StringSlice("driver-option", nil, "Driver option key=value, repeatable")
}

var shareCreateCmd = &cobra.Command{
	Use:   "create <protocol> <size-gib>",
	Short: "Create a share",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("size %q is not a number of GiB", args[1])
		}
		pairs, _ := cmd.Flags().GetStringSlice("property")
		metadata, err := cliutil.ParseProperties(pairs)
		if err != nil {
			return err
		}

		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		share, err := sfs.Shares.Create(cmd.Context(), v2.ShareCreateOpts{
			Proto:            args[0],
			Size:             size,
			Name:             f.String("name"),
			Description:      f.String("description"),
			SnapshotID:       f.String("snapshot"),
			ShareNetworkID:   f.String("share-network"),
			ShareTypeID:      f.String("share-type"),
			ShareGroupID:     f.String("share-group"),
			AvailabilityZone: f.String("availability-zone"),
			IsPublic:         f.Bool("public"),
			Metadata:         metadata,
		})
		if err != nil {
			return err
		}
		return printShare(share)
	},
}

var shareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shares",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		shares, err := sfs.Shares.List(cmd.Context(), &v2.ShareListOpts{
			AllTenants:     f.Bool("all-projects"),
			Name:           f.String("name"),
			Status:         f.String("status"),
			ShareNetworkID: f.String("share-network"),
			ShareGroupID:   f.String("share-group"),
			Limit:          f.Int("limit"),
			SortKey:        f.String("sort-key"),
			SortDir:        f.String("sort-dir"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, shares)
		}
		rows := make([][]string, 0, len(shares))
		for _, s := range shares {
			rows = append(rows, []string{
				s.ID, cliutil.Dash(s.Name), cliutil.Gigabytes(s.Size),
				s.ShareProto, s.Status, cliutil.Dash(s.Host),
			})
		}
		return cliutil.Table(os.Stdout,
			[]string{"ID", "NAME", "SIZE", "PROTO", "STATUS", "HOST"}, rows)
	},
}

var shareShowCmd = &cobra.Command{
	Use:   "show <share-id>",
	Short: "Show share details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		share, err := sfs.Shares.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printShare(share)
	},
}

var shareDeleteCmd = &cobra.Command{
	Use:   "delete <share-id>...",
	Short: "Delete one or more shares",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		group, _ := cmd.Flags().GetString("share-group")
		for _, id := range args {
			if force {
				err = sfs.Shares.ForceDelete(cmd.Context(), id)
			} else {
				err = sfs.Shares.Delete(cmd.Context(), id, group)
			}
			if err != nil {
				return fmt.Errorf("delete share %s: %w", id, err)
			}
		}
		return nil
	},
}

var shareExtendCmd = &cobra.Command{
	Use:   "extend <share-id> <new-size-gib>",
	Short: "Grow a share",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newSize, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("size %q is not a number of GiB", args[1])
		}
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.Extend(cmd.Context(), args[0], newSize)
	},
}

var shareShrinkCmd = &cobra.Command{
	Use:   "shrink <share-id> <new-size-gib>",
	Short: "Shrink a share",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newSize, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("size %q is not a number of GiB", args[1])
		}
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.Shrink(cmd.Context(), args[0], newSize)
	},
}

var shareResetStateCmd = &cobra.Command{
	Use:   "reset-state <share-id> <state>",
	Short: "Set the share status directly (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.ResetState(cmd.Context(), args[0], args[1])
	},
}

var shareMigrateCmd = &cobra.Command{
	Use:   "migrate <share-id> <host#pool>",
	Short: "Migrate a share to another host (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		forceHostCopy, _ := cmd.Flags().GetBool("force-host-copy")
		return sfs.Shares.Migrate(cmd.Context(), args[0], args[1], forceHostCopy)
	},
}

var shareManageCmd = &cobra.Command{
	Use:   "manage <service-host> <protocol> <export-path>",
	Short: "Bring an existing backend export under management (admin)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringSlice("driver-option")
		driverOptions, err := cliutil.ParseProperties(pairs)
		if err != nil {
			return err
		}
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		share, err := sfs.Shares.Manage(cmd.Context(), v2.ShareManageOpts{
			ServiceHost:   args[0],
			Protocol:      args[1],
			ExportPath:    args[2],
			ShareTypeID:   f.String("share-type"),
			Name:          f.String("name"),
			Description:   f.String("description"),
			DriverOptions: driverOptions,
		})
		if err != nil {
			return err
		}
		return printShare(share)
	},
}

var shareUnmanageCmd = &cobra.Command{
	Use:   "unmanage <share-id>",
	Short: "Release a share from management without deleting backend data (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.Unmanage(cmd.Context(), args[0])
	},
}

var shareSetCmd = &cobra.Command{
	Use:   "set <share-id> <key=value>...",
	Short: "Set share metadata",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata, err := cliutil.ParseProperties(args[1:])
		if err != nil {
			return err
		}
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		merged, err := sfs.Shares.SetMetadata(cmd.Context(), args[0], metadata)
		if err != nil {
			return err
		}
		fmt.Println(cliutil.FormatProperties(merged))
		return nil
	},
}

var shareUnsetCmd = &cobra.Command{
	Use:   "unset <share-id> <key>...",
	Short: "Remove share metadata keys",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.DeleteMetadata(cmd.Context(), args[0], args[1:])
	},
}

var shareAccessCmd = &cobra.Command{
	Use:   "access",
	Short: "Manage share access rules",
}

var shareAccessAllowCmd = &cobra.Command{
	Use:   "allow <share-id> <type> <access-to>",
	Short: "Grant access to a share (type: ip, user, or cert)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("access-level")
		rule, err := sfs.Shares.Allow(cmd.Context(), args[0], args[1], args[2], level)
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, rule)
		}
		fmt.Printf("%s %s %s %s %s\n", rule.ID, rule.AccessType, rule.AccessTo,
			cliutil.Dash(rule.AccessLevel), cliutil.Dash(rule.State))
		return nil
	},
}

var shareAccessDenyCmd = &cobra.Command{
	Use:   "deny <share-id> <access-id>",
	Short: "Revoke an access rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.Shares.Deny(cmd.Context(), args[0], args[1])
	},
}

var shareAccessListCmd = &cobra.Command{
	Use:   "list <share-id>",
	Short: "List access rules of a share",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		rules, err := sfs.Shares.AccessList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, rules)
		}
		rows := make([][]string, 0, len(rules))
		for _, r := range rules {
			rows = append(rows, []string{
				r.ID, r.AccessType, r.AccessTo,
				cliutil.Dash(r.AccessLevel), cliutil.Dash(r.State),
			})
		}
		return cliutil.Table(os.Stdout,
			[]string{"ID", "TYPE", "ACCESS_TO", "LEVEL", "STATE"}, rows)
	},
}

func printShare(share *v2.Share) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, share)
	}
	rows := [][]string{
		{"id", share.ID},
		{"name", cliutil.Dash(share.Name)},
		{"size", cliutil.Gigabytes(share.Size)},
		{"share_proto", share.ShareProto},
		{"status", share.Status},
		{"is_public", strconv.FormatBool(share.IsPublic)},
		{"availability_zone", cliutil.Dash(share.AvailabilityZone)},
		{"share_network_id", cliutil.Dash(share.ShareNetworkID)},
		{"share_type_id", cliutil.Dash(share.ShareTypeID)},
		{"share_group_id", cliutil.Dash(share.ShareGroupID)},
		{"export_location", cliutil.Dash(share.ExportLocation)},
		{"created_at", cliutil.Dash(share.CreatedAt)},
		{"metadata", cliutil.Dash(cliutil.FormatProperties(share.Metadata))},
	}
	return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
