// Command reconcile-counters recomputes every post's like and comment counts
// from the likes and comments tables and repairs any drift.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/database"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("Failed to load config", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.FatalWithFields("Failed to initialize logger", err)
	}
	defer logger.Close()

	db, err := database.Initialize(cfg.Database, false)
	if err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results, err := engagement.NewService(db).ReconcileAll(ctx)
	if err != nil {
		logger.ErrorWithFields("Reconcile failed", err)
		os.Exit(1)
	}

	drifted := 0
	for _, r := range results {
		if !r.Drifted {
			continue
		}
		drifted++
		logger.Log.Info("Repaired counters",
			logger.WithPostID(r.PostID),
			zap.Int64("likes_before", r.Before.Likes),
			zap.Int64("likes_after", r.After.Likes),
			zap.Int64("comments_before", r.Before.Comments),
			zap.Int64("comments_after", r.After.Comments),
		)
	}

	fmt.Printf("Checked %d posts, repaired %d\n", len(results), drifted)
}
