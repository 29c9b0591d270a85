package main

import (
	"context"
	"os"
	"slotly/pkg/config"
	"time"

	"github.com/spf13/cobra"
)

const JobName = "slotly-maintenance"

var (
	cfg     *config.Config
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "One-shot maintenance jobs against the Slotly database",
	Long: `Run maintenance jobs against the database named by MONGO_URI and
MONGO_DATABASE_NAME. Each job opens a single connection and closes it before
exiting.

Examples:
  # Delete every availability block
  maintenance purge-availability

  # Ensure collections, validators and indexes exist
  maintenance migrate`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(JobName, config.DefaultAPIPort)
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Deadline for the whole job")
}

func jobContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
