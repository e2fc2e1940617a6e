package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"osboard/internal/dashboard"
	"osboard/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, most pressing first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := dashboard.ParseFilterMode(filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(a.dash.View(mode)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "pending", "all, pending or completed")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var d model.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pending order",
		Long: `Create a pending order.

The deadline accepts RFC 3339 ("2025-06-01T18:00:00-03:00") or a local
date-time ("2025-06-01T18:00").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.dash.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (OS %s)\n", o.ID, o.OSNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&d.OSNumber, "os", "", "service order number")
	cmd.Flags().StringVar(&d.StoreName, "store", "", "store name")
	cmd.Flags().StringVar(&d.Salesperson, "salesperson", "", "salesperson")
	cmd.Flags().StringVar(&d.Deadline, "deadline", "", "deadline")
	cmd.Flags().StringVar(&d.DeliveryMethod, "delivery", "PICKUP", "PICKUP or DELIVERY")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free-form notes")
	return cmd
}

func newCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an order completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dash.Complete(cmd.Context(), args[0])
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dash.Remove(cmd.Context(), args[0])
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show order counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(a.dash.Stats()))
			return nil
		},
	}
}
