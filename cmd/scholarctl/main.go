package main

import (
	"ScholarsBox/internal/bootstrap"
	"ScholarsBox/internal/config"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	timeout time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scholarctl",
	Short: "Offline administration for the ScholarsBox record store",
	Long: `scholarctl talks to the same MongoDB database as the API server.

It reads MONGO_URI and MONGO_DB from the environment (or .env) and can import
scholarship CSV files or bootstrap admin accounts without going through HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = config.NewLogger(&config.AppConfig{LogLevel: level})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// withDatabase connects, ensures indexes and hands the database to fn.
func withDatabase(parent context.Context, fn func(ctx context.Context, c *config.MongoDBClient) error) error {
	dbConfig, err := config.NewMongoDBConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	client, err := config.Connect(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Client.Disconnect(context.Background()); err != nil {
			logger.Warn("Disconnect failed", zap.Error(err))
		}
	}()

	if err := config.EnsureIndexes(ctx, client.Database, logger); err != nil {
		return err
	}
	return fn(ctx, client)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(importCmd)
	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}

func main() {
	bootstrap.Loadenv()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
