package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/japanesestudent/learning-summary/internal/config"
	"github.com/japanesestudent/learning-summary/internal/database"
	"github.com/japanesestudent/learning-summary/internal/logger"
	"github.com/japanesestudent/learning-summary/internal/repositories"
	"github.com/japanesestudent/learning-summary/internal/services"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSummaryCommand() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the daily learning summary of a user as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return errors.New("--user-id must be a positive integer")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.Logging.Level); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			db, err := database.Connect(cmd.Context(), cfg, logger.Logger)
			if err != nil {
				return err
			}
			defer db.Close()

			return printSummary(cmd.Context(), cmd.OutOrStdout(), db, logger.Logger, userID)
		},
	}
	cmd.Flags().IntVar(&userID, "user-id", 0, "ID of the user to summarize")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

// printSummary writes the same JSON array the HTTP endpoint returns
func printSummary(ctx context.Context, out io.Writer, db *sqlx.DB, log *zap.Logger, userID int) error {
	svc := services.NewSummaryService(repositories.NewLearningDataRepository(db, log))

	summary, err := svc.GetDailySummary(ctx, userID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	return nil
}
