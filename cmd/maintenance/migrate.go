package main

import (
	"context"
	"fmt"
	mongoMigration "slotly/internal/migrations/mongo"
	"slotly/pkg/client"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ensure collections, validators and indexes exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := jobContext(cmd)
		defer cancel()

		mc, err := client.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoConnTimeout)
		if err != nil {
			cfg.Log.Error("Migration failed", "error", err)
			return err
		}
		defer func() {
			if err := mc.Disconnect(context.WithoutCancel(ctx)); err != nil {
				cfg.Log.Warn("Failed to disconnect from MongoDB", "error", err)
			}
		}()

		cfg.Log.Info("Starting Mongo migration", "database", cfg.MongoDatabaseName)
		if err := mongoMigration.RunMigration(ctx, mc.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
			cfg.Log.Error("Migration failed", "error", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration completed successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
