package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedulink/config"
	"schedulink/database"
	"schedulink/logger"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := database.Migrate(cfg.Database.DSN, database.Direction(args[0]), log); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return nil
		},
	}
}
