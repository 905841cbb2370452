package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-vitals/internal/client"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

func newWeightCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "weight <kg>",
		Short: "Record the body weight of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := client.BuildWeightRequest(args[0], date)
			if err != nil {
				return err
			}
			var out client.StatusResponse
			if err := opts.client().Do(commandContext(cmd), req, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weight recorded for %s\n", out.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD), defaults to today on the server")
	return cmd
}

func newWaterCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "water <ml>",
		Short: "Add water to the daily total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := client.BuildWaterRequest(args[0], date)
			if err != nil {
				return err
			}
			var out struct {
				Date    string `json:"date"`
				WaterML int    `json:"water_ml"`
			}
			if err := opts.client().Do(commandContext(cmd), req, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Water for %s: %d ml\n", out.Date, out.WaterML)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD), defaults to today on the server")
	return cmd
}

func newCaloriesCmd(opts *globalOptions) *cobra.Command {
	var (
		at   string
		item string
	)

	cmd := &cobra.Command{
		Use:   "calories <kcal>",
		Short: "Log a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if at != "" {
				parsed, err := domain.ParseDatetime(at, time.Local)
				if err != nil {
					return err
				}
				when = parsed
			}

			req, err := client.BuildCaloriesRequest(args[0], when, item)
			if err != nil {
				return err
			}
			if err := opts.client().Do(commandContext(cmd), req, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s kcal at %s\n", args[0], when.Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Meal time (YYYY-MM-DDTHH:MM or RFC3339), defaults to now")
	cmd.Flags().StringVar(&item, "item", "", "What was eaten")
	return cmd
}
