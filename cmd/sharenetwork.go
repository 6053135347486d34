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

var shareNetworkCmd = &cobra.Command{
	Use:   "share-network",
	Short: "Manage share networks",
}

func init() {
	rootCmd.AddCommand(shareNetworkCmd)
	shareNetworkCmd.AddCommand(shareNetworkCreateCmd)
	shareNetworkCmd.AddCommand(shareNetworkListCmd)
	shareNetworkCmd.AddCommand(shareNetworkShowCmd)
	shareNetworkCmd.AddCommand(shareNetworkSetCmd)
	shareNetworkCmd.AddCommand(shareNetworkDeleteCmd)

	for _, c := range []*cobra.Command{shareNetworkCreateCmd, shareNetworkSetCmd} {
		f := c.Flags()
		f.String("name", "", "Share network name")
		f.String("description", "", "Share network description")
		f.String("neutron-net", "", "Neutron network ID")
		f.String("neutron-subnet", "", "Neutron subnet ID")
	}

	f := shareNetworkListCmd.Flags()
	f.Bool("all-projects", false, "List share networks of all projects (admin)")
	f.String("name", "", "Filter by name")
}

// networkOpts builds ShareNetworkOpts from whichever flags were set, so
// updates only send changed fields.
func networkOpts(cmd *cobra.Command) v2.ShareNetworkOpts {
	var opts v2.ShareNetworkOpts
	set := func(dst **string, flagName string) {
		if cmd.Flags().Changed(flagName) {
			v, _ := cmd.Flags().GetString(flagName)
			*dst = &v
		}
	}
	set(&opts.Name, "name")
	set(&opts.Description, "description")
	set(&opts.NeutronNetID, "neutron-net")
	set(&opts.NeutronSubnetID, "neutron-subnet")
	return opts
}

var shareNetworkCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a share network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		net, err := sfs.ShareNetworks.Create(cmd.Context(), networkOpts(cmd))
		if err != nil {
			return err
		}
		return printShareNetwork(net)
	},
}

var shareNetworkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		nets, err := sfs.ShareNetworks.List(cmd.Context(), &v2.ShareNetworkListOpts{
			AllTenants: f.Bool("all-projects"),
			Name:       f.String("name"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, nets)
		}
		rows := make([][]string, 0, len(nets))
		for _, n := range nets {
			rows = append(rows, []string{
				n.ID, cliutil.Dash(n.Name),
				cliutil.Dash(n.NeutronNetID), cliutil.Dash(n.CIDR),
			})
		}
		return cliutil.Table(os.Stdout, []string{"ID", "NAME", "NEUTRON_NET", "CIDR"}, rows)
	},
}

var shareNetworkShowCmd = &cobra.Command{
	Use:   "show <network-id>",
	Short: "Show share network details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		net, err := sfs.ShareNetworks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printShareNetwork(net)
	},
}

var shareNetworkSetCmd = &cobra.Command{
	Use:   "set <network-id>",
	Short: "Update share network attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		net, err := sfs.ShareNetworks.Update(cmd.Context(), args[0], networkOpts(cmd))
		if err != nil {
			return err
		}
		return printShareNetwork(net)
	},
}

var shareNetworkDeleteCmd = &cobra.Command{
	Use:   "delete <network-id>",
	Short: "Delete a share network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		return sfs.ShareNetworks.Delete(cmd.Context(), args[0])
	},
}

func printShareNetwork(net *v2.ShareNetwork) error {
	if jsonOutput {
		return cliutil.WriteJSON(os.Stdout, net)
	}
	rows := [][]string{
		{"id", net.ID},
		{"name", cliutil.Dash(net.Name)},
		{"neutron_net_id", cliutil.Dash(net.NeutronNetID)},
		{"neutron_subnet_id", cliutil.Dash(net.NeutronSubnetID)},
		{"network_type", cliutil.Dash(net.NetworkType)},
		{"segmentation_id", strconv.Itoa(net.SegmentationID)},
		{"cidr", cliutil.Dash(net.CIDR)},
		{"created_at", cliutil.Dash(net.CreatedAt)},
	}
	return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
