package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-vitals/internal/client"
)

type globalOptions struct {
	server  string
	token   string
	timeout time.Duration
}

func (o *globalOptions) client() *client.Client {
	return client.New(o.server, o.token, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "vitalsctl",
		Short:         "vitalsctl talks to a kanso-vitals server",
		Long:          "vitalsctl logs weight, water and meals, triggers provider syncs and manages the dataset of a kanso-vitals server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if !cmd.Flags().Changed("server") {
				if v := os.Getenv("VITALS_SERVER"); v != "" {
					opts.server = v
				}
			}
			if !cmd.Flags().Changed("token") {
				opts.token = os.Getenv("VITALS_TOKEN")
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", "http://localhost:8080", "Base URL of the server (env VITALS_SERVER)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "Admin token (env VITALS_TOKEN)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Request timeout")

	root.AddCommand(
		newLoginCmd(opts),
		newHashPasswordCmd(),
		newWeightCmd(opts),
		newWaterCmd(opts),
		newCaloriesCmd(opts),
		newSyncCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newClearCmd(opts),
	)
	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
