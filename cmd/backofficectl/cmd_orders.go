package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"backoffice/internal/app"
	"backoffice/internal/domain/models"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/spf13/cobra"
)

var (
	ordersUnpaid bool
	ordersOptic  int64
	payAll       bool
	payAmount    string
	invoiceOut   string
	invoiceCard  bool
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and settle orders",
}

var ordersListCmd = &cobra.Command{
	Use:       "list {cnam|essafwa|glasses|cabinet}",
	Short:     "List orders of one kind",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"cnam", "essafwa", "glasses", "cabinet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var rows []services.ReportRow
			switch args[0] {
			case "cnam":
				orders, err := a.API.Cnam.List(ctx)
				if err != nil {
					return err
				}
				rows = services.CnamRows(orders, ordersOptic)
			case "essafwa":
				orders, err := a.API.Essafwa.List(ctx)
				if err != nil {
					return err
				}
				rows = services.EssafwaRows(orders, ordersOptic)
			case "glasses":
				orders, err := a.API.Glasses.List(ctx)
				if err != nil {
					return err
				}
				rows = services.GlassesRows(orders, ordersOptic)
			case "cabinet":
				orders, err := a.API.Cabinet.ListOrders(ctx)
				if err != nil {
					return err
				}
				for _, o := range orders {
					rows = append(rows, services.ReportRow{
						Reference: utils.Fallback(o.Reference, strconv.FormatInt(o.ID, 10)),
						Party:     utils.Fallback(o.Cabinet, "-"),
						Date:      utils.FormatDate(o.CreatedAt),
						Total:     o.TotalPrice,
						Paid:      o.PaidAmount,
						Status:    o.Status,
					})
				}
			}
			return printRows(cmd, rows)
		})
	},
}

func printRows(cmd *cobra.Command, rows []services.ReportRow) error {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		if ordersUnpaid && r.Due() <= 0 {
			continue
		}
		table = append(table, []string{
			r.Reference, r.Party, r.Date,
			utils.FormatDirham(r.Total), utils.FormatDirham(r.Paid), utils.FormatDirham(r.Due()),
			utils.Fallback(r.Status, "-"),
		})
	}
	return printTable(cmd.OutOrStdout(),
		[]string{"Ref", "Party", "Date", "Total", "Paid", "Due", "Status"}, table)
}

var ordersPayCmd = &cobra.Command{
	Use:   "pay <essafwa-order-id>",
	Short: "Record a payment on an Essafwa order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := models.Payment{AllPaid: payAll}
		if cmd.Flags().Changed("amount") {
			amount, err := utils.ParseAmount(payAmount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			if amount < 0 {
				return fmt.Errorf("--amount must not be negative")
			}
			p.PaidAmount = &amount
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.API.Essafwa.Pay(ctx, id, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment recorded on order %d\n", id)
			return nil
		})
	},
}

var ordersInvoiceCmd = &cobra.Command{
	Use:       "invoice {cnam|essafwa} <order-id>",
	Short:     "Download an order invoice (or CNAM card with --card)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"cnam", "essafwa"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var doc models.Document
			switch {
			case args[0] == "cnam" && invoiceCard:
				doc, err = a.API.Cnam.PrintCard(ctx, id)
			case args[0] == "cnam":
				doc, err = a.API.Cnam.PrintInvoice(ctx, id)
			case args[0] == "essafwa":
				doc, err = a.API.Essafwa.PrintInvoice(ctx, id)
			default:
				return fmt.Errorf("unknown order kind %q", args[0])
			}
			if err != nil {
				return err
			}
			out := invoiceOut
			if out == "" {
				out = doc.Filename
			}
			if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(doc.Data))
			return nil
		})
	},
}

var ordersMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid <optic-id> <order-ids>",
	Short: "Mark glasses orders of an optic as paid",
	Long:  "Order ids are separated by commas or semicolons, e.g. 12,13;20.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opticID, err := parseID(args[0])
		if err != nil {
			return err
		}
		ids, err := utils.SplitIDList(args[1])
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no order ids given")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.API.Glasses.MarkOpticOrdersPaid(ctx, opticID, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d orders of optic %d marked paid\n", len(ids), opticID)
			return nil
		})
	},
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", raw)
	}
	return id, nil
}

func init() {
	ordersListCmd.Flags().BoolVar(&ordersUnpaid, "unpaid", false, "only orders with an amount due")
	ordersListCmd.Flags().Int64Var(&ordersOptic, "optic", 0, "only orders of this optic")
	ordersPayCmd.Flags().BoolVar(&payAll, "all", false, "mark the order fully paid")
	ordersPayCmd.Flags().StringVar(&payAmount, "amount", "", `amount paid, e.g. "1 200,50"`)
	ordersInvoiceCmd.Flags().StringVarP(&invoiceOut, "out", "o", "", "output file (defaults to the server filename)")
	ordersInvoiceCmd.Flags().BoolVar(&invoiceCard, "card", false, "print the CNAM card instead of the invoice")

	ordersCmd.AddCommand(ordersListCmd, ordersPayCmd, ordersInvoiceCmd, ordersMarkPaidCmd)
	rootCmd.AddCommand(ordersCmd)
}
