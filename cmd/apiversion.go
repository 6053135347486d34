// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/manilago/pkg/cliutil"
	"github.com/LeeDigitalWorks/manilago/pkg/manila/apiversions"

	"github.com/spf13/cobra"
)

var apiVersionCmd = &cobra.Command{
	Use:   "api-version",
	Short: "Show the negotiated API microversion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		info := map[string]string{
			"negotiated": sfs.APIVersion().String(),
			"client_min": apiversions.MinVersion.String(),
			"client_max": apiversions.MaxVersion.String(),
			"endpoint":   sfs.Transport().Endpoint(),
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, info)
		}
		rows := [][]string{
			{"negotiated", info["negotiated"]},
			{"client_min", info["client_min"]},
			{"client_max", info["client_max"]},
			{"endpoint", info["endpoint"]},
		}
		return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(apiVersionCmd)
}
