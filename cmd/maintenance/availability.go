package main

import (
	"fmt"
	"slotly/internal/availability"

	"github.com/spf13/cobra"
)

var purgeAvailabilityCmd = &cobra.Command{
	Use:   "purge-availability",
	Short: "Delete every availability block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := jobContext(cmd)
		defer cancel()

		result, err := newPurger().Purge(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d availability blocks, %d remaining\n", result.Deleted, result.Remaining)
		return nil
	},
}

var countAvailabilityCmd = &cobra.Command{
	Use:   "count-availability",
	Short: "Print the number of availability blocks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := jobContext(cmd)
		defer cancel()

		count, err := newPurger().Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d availability blocks\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeAvailabilityCmd)
	rootCmd.AddCommand(countAvailabilityCmd)
}

func newPurger() *availability.Purger {
	connector := availability.MongoConnector{
		URI:          cfg.MongoURI,
		Database:     cfg.MongoDatabaseName,
		ConnTimeout:  cfg.MongoConnTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return availability.NewPurger(connector, cfg.Log)
}
