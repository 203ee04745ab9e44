package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "schedulink",
		Short:        "Schedulink appointment scheduling API",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default ./config/config.yaml or ./config.yaml)")

	cmd.AddCommand(newServeCmd(&configPath), newMigrateCmd(&configPath))
	return cmd
}
