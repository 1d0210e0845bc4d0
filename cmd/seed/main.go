package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/database"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/seed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	seedValue int64
	opts      = seed.DevOptions()
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill or empty the development database",
}

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Seed development database with realistic data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *gorm.DB) error {
			logger.Log.Info("Seeding development database...", zap.Int64("seed", seedValue))
			summary, err := seed.NewSeeder(db, seedValue).Seed(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d users, %d posts, %d likes, %d comments, %d follows, %d events\n",
				summary.Users, summary.Posts, summary.Likes, summary.Comments, summary.Follows, summary.Events)
			return nil
		})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all rows (use with caution)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *gorm.DB) error {
			logger.Log.Info("Cleaning seed data...")
			return seed.NewSeeder(db, seedValue).Clean(ctx)
		})
	},
}

func init() {
	devCmd.Flags().Int64Var(&seedValue, "seed", time.Now().UnixNano(), "random seed for reproducible data")
	devCmd.Flags().IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	devCmd.Flags().IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "posts per user")
	devCmd.Flags().IntVar(&opts.Events, "events", opts.Events, "number of events to create")

	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(cleanCmd)
}

func withDB(fn func(ctx context.Context, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer logger.Close()

	db, err := database.Initialize(cfg.Database, false)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}
	return fn(context.Background(), db)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
