package main

import (
	"context"
	"fmt"
	"strconv"

	"backoffice/internal/app"

	"github.com/spf13/cobra"
)

var opticsCmd = &cobra.Command{
	Use:   "optics",
	Short: "Manage optic shops",
}

var opticsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List optic shops",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			optics, err := a.API.Optics.List(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), optics)
			}
			rows := make([][]string, 0, len(optics))
			for _, o := range optics {
				rows = append(rows, []string{
					strconv.FormatInt(o.ID, 10), o.Name, o.City,
					strconv.FormatBool(o.Active), strconv.FormatBool(o.AutoValidate),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "Name", "City", "Active", "AutoValidate"}, rows)
		})
	},
}

func opticAction(use, short, done string, run func(ctx context.Context, a *app.App, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <optic-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := run(ctx, a, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "optic %d %s\n", id, done)
				return nil
			})
		},
	}
}

var opticsAutoValidateCmd = &cobra.Command{
	Use:   "auto-validate <optic-id> <true|false>",
	Short: "Toggle automatic order validation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		on, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("%q is not a boolean", args[1])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.API.Optics.SetAutoValidate(ctx, id, on); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "optic %d auto-validate=%t\n", id, on)
			return nil
		})
	},
}

func init() {
	opticsCmd.AddCommand(
		opticsListCmd,
		opticAction("activate", "Activate an optic shop", "activated",
			func(ctx context.Context, a *app.App, id int64) error { return a.API.Optics.Activate(ctx, id) }),
		opticAction("deactivate", "Deactivate an optic shop", "deactivated",
			func(ctx context.Context, a *app.App, id int64) error { return a.API.Optics.Deactivate(ctx, id) }),
		opticsAutoValidateCmd,
	)
	rootCmd.AddCommand(opticsCmd)
}
