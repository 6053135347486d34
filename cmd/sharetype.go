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

var shareTypeCmd = &cobra.Command{
	Use:   "share-type",
	Short: "Manage share types",
}

func init() {
	rootCmd.AddCommand(shareTypeCmd)
	shareTypeCmd.AddCommand(shareTypeCreateCmd)
	shareTypeCmd.AddCommand(shareTypeListCmd)
	shareTypeCmd.AddCommand(shareTypeDefaultCmd)
	shareTypeCmd.AddCommand(shareTypeDeleteCmd)
	shareTypeCmd.AddCommand(shareTypeSetCmd)
	shareTypeCmd.AddCommand(shareTypeUnsetCmd)
	shareTypeCmd.AddCommand(shareTypeAccessCmd)
	shareTypeAccessCmd.AddCommand(shareTypeAccessAddCmd)
	shareTypeAccessCmd.AddCommand(shareTypeAccessRemoveCmd)
	shareTypeAccessCmd.AddCommand(shareTypeAccessListCmd)

	f := shareTypeCreateCmd.Flags()
	f.Bool("public", true, "Make the type visible to all projects")
	f.StringSlice("extra-spec", nil, "Extra spec key=value, repeatable")

	shareTypeListCmd.Flags().Bool("all", false, "Include private share types (admin)")
}

var shareTypeCreateCmd = &cobra.Command{
	Use:   "create <name> <dhss>",
	Short: "Create a share type (dhss: driver_handles_share_servers, true or false)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dhss, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("dhss %q is not a boolean", args[1])
		}
		pairs, _ := cmd.Flags().GetStringSlice("extra-spec")
		specs, err := cliutil.ParseProperties(pairs)
		if err != nil {
			return err
		}

		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		public, _ := cmd.Flags().GetBool("public")
		st, err := sfs.ShareTypes.Create(cmd.Context(), v2.ShareTypeCreateOpts{
			Name:                      args[0],
			DriverHandlesShareServers: dhss,
			IsPublic:                  public,
			ExtraSpecs:                specs,
		})
		if err != nil {
			return err
		}
		return printShareType(st)
	},
}

var shareTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		showAll, _ := cmd.Flags().GetBool("all")
		types, err := sfs.ShareTypes.List(cmd.Context(), showAll)
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, types)
		}
		rows := make([][]string, 0, len(types))
		for _, st := range types {
			rows = append(rows, []string{
				st.ID, st.Name, strconv.FormatBool(st.IsPublic),
				cliutil.Dash(st.ExtraSpecs[v2.DriverHandlesShareServers]),
			})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "NAME", "PUBLIC", "DHSS"}, rows)
	},
}

var shareTypeDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Show the default share type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		st, err := sfs.ShareTypes.Default(cmd.Context())
		if err != nil {
			return err
		}
		return printShareType(st)
	},
}

var shareTypeDeleteCmd = &cobra.Command{
	Use:   "delete <type-id>",
	Short: "Delete a share type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.ShareTypes.Delete(cmd.Context(), args[0])
	},
}

var shareTypeSetCmd = &cobra.Command{
	Use:   "set <type-id> <key=value>...",
	Short: "Set share type extra specs",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := cliutil.ParseProperties(args[1:])
		if err != nil {
			return err
		}
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		merged, err := sfs.ShareTypes.SetExtraSpecs(cmd.Context(), args[0], specs)
		if err != nil {
			return err
		}
		fmt.Println(cliutil.FormatProperties(merged))
		return nil
	},
}

var shareTypeUnsetCmd = &cobra.Command{
	Use:   "unset <type-id> <key>...",
	Short: "Remove share type extra spec keys",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		for _, key := range args[1:] {
			if err := sfs.ShareTypes.UnsetExtraSpec(cmd.Context(), args[0], key); err != nil {
				return err
			}
		}
		return nil
	},
}

var shareTypeAccessCmd = &cobra.Command{
	Use:   "access",
	Short: "Manage project access to private share types",
}

var shareTypeAccessAddCmd = &cobra.Command{
	Use:   "add <type-id> <project-id>",
	Short: "Grant a project access to a private share type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.ShareTypes.AddProjectAccess(cmd.Context(), args[0], args[1])
	},
}

var shareTypeAccessRemoveCmd = &cobra.Command{
	Use:   "remove <type-id> <project-id>",
	Short: "Revoke a project's access to a private share type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.ShareTypes.RemoveProjectAccess(cmd.Context(), args[0], args[1])
	},
}

var shareTypeAccessListCmd = &cobra.Command{
	Use:   "list <type-id>",
	Short: "List projects with access to a private share type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		projects, err := sfs.ShareTypes.ListProjectAccess(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, projects)
		}
		for _, p := range projects {
			fmt.Println(p)
		}
		return nil
	},
}

func printShareType(st *v2.ShareType) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, st)
	}
	rows := [][]string{
		{"id", st.ID},
		{"name", st.Name},
		{"is_public", strconv.FormatBool(st.IsPublic)},
		{"extra_specs", cliutil.Dash(cliutil.FormatProperties(st.ExtraSpecs))},
	}
	return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
