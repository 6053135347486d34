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

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Read asynchronous failure messages",
}

func init() {
	rootCmd.AddCommand(messageCmd)
	messageCmd.AddCommand(messageListCmd)
	messageCmd.AddCommand(messageShowCmd)
	messageCmd.AddCommand(messageDeleteCmd)

	f := messageListCmd.Flags()
	f.String("resource-type", "", "Filter by resource type (e.g. SHARE)")
	f.String("resource", "", "Filter by resource ID")
	f.String("level", "", "Filter by message level (e.g. ERROR)")
	f.Int("limit", 0, "Maximum number of messages")
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		f := NewFlagLoader(cmd)
		msgs, err := sfs.Messages.List(cmd.Context(), &v2.MessageListOpts{
			ResourceType: f.String("resource-type"),
			ResourceID:   f.String("resource"),
			MessageLevel: f.String("level"),
			Limit:        f.Int("limit"),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, msgs)
		}
		rows := make([][]string, 0, len(msgs))
		for _, m := range msgs {
			rows = append(rows, []string{
				m.ID, m.ResourceType, m.ResourceID, m.MessageLevel, m.UserMessage,
			})
		}
		return cliutil.Table(os.Stdout,
			[]string{"ID", "RESOURCE_TYPE", "RESOURCE", "LEVEL", "MESSAGE"}, rows)
	},
}

var messageShowCmd = &cobra.Command{
	Use:   "show <message-id>",
	Short: "Show message details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		msg, err := sfs.Messages.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return cliutil.WriteJSON(os.Stdout, msg)
		}
		rows := [][]string{
			{"id", msg.ID},
			{"resource_type", msg.ResourceType},
			{"resource_id", msg.ResourceID},
			{"action_id", msg.ActionID},
			{"detail_id", msg.DetailID},
			{"level", msg.MessageLevel},
			{"message", msg.UserMessage},
			{"created_at", cliutil.Dash(msg.CreatedAt)},
			{"expires_at", cliutil.Dash(msg.ExpiresAt)},
		}
		return cliutil.Table(os.Stdout, []string{"FIELD", "VALUE"}, rows)
	},
}

var messageDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>...",
	Short: "Delete one or more messages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sfs, err := openClient(cmd)
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := sfs.Messages.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete message %s: %w", id, err)
			}
		}
		return nil
	},
}
