package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"backoffice/internal/app"
	"backoffice/internal/domain/models"

	"github.com/spf13/cobra"
)

var (
	msgTitle string
	msgFr    string
	msgAr    string
)

var marketingCmd = &cobra.Command{
	Use:   "marketing",
	Short: "Manage marketing messages",
}

var marketingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List marketing messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			msgs, err := a.API.Marketing.List(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), msgs)
			}
			rows := make([][]string, 0, len(msgs))
			for _, m := range msgs {
				id := "-"
				if m.ID != nil {
					id = strconv.FormatInt(*m.ID, 10)
				}
				rows = append(rows, []string{id, m.Title, m.MessageFr})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "Title", "Message"}, rows)
		})
	},
}

var marketingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a marketing message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(msgTitle) == "" || (strings.TrimSpace(msgFr) == "" && strings.TrimSpace(msgAr) == "") {
			return fmt.Errorf("--title and --fr or --ar are required")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out, err := a.API.Marketing.Create(ctx, models.MarketingMessage{Title: msgTitle, MessageFr: msgFr, MessageAr: msgAr})
			if err != nil {
				return err
			}
			if out.ID != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "created message %d\n", *out.ID)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created message")
			return nil
		})
	},
}

var marketingDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete a marketing message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.API.Marketing.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted message %d\n", id)
			return nil
		})
	},
}

func init() {
	marketingCreateCmd.Flags().StringVar(&msgTitle, "title", "", "message title")
	marketingCreateCmd.Flags().StringVar(&msgFr, "fr", "", "French text")
	marketingCreateCmd.Flags().StringVar(&msgAr, "ar", "", "Arabic text")
	marketingCmd.AddCommand(marketingListCmd, marketingCreateCmd, marketingDeleteCmd)
	rootCmd.AddCommand(marketingCmd)
}
