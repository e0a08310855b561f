package repositories

import (
	"context"
	"fmt"

	"github.com/japanesestudent/learning-summary/internal/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// dailyCountsQuery counts a user's learning records per learned_date.
// Placeholders are written in "?" form and rebound for the connected driver.
const dailyCountsQuery = `
	SELECT learned_date, COUNT(*) AS sentence_count
	FROM learning_data
	WHERE user_id = ?
	GROUP BY learned_date
	ORDER BY learned_date ASC
`

type learningDataRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewLearningDataRepository creates a new learning data repository
func NewLearningDataRepository(db *sqlx.DB, logger *zap.Logger) *learningDataRepository {
	return &learningDataRepository{
		db:     db,
		logger: logger,
	}
}

// GetDailyCounts retrieves the number of learning records per learned_date for a user.
//
// Rows are ordered by ascending learned_date. A user without records gets an empty slice.
func (r *learningDataRepository) GetDailyCounts(ctx context.Context, userID int) ([]models.DailyCount, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(dailyCountsQuery), userID)
	if err != nil {
		r.logger.Error("failed to query daily learning counts", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	counts := []models.DailyCount{}
	for rows.Next() {
		var count models.DailyCount
		// Scanning into int fields also converts drivers that report COUNT(*) as text
		if err := rows.StructScan(&count); err != nil {
			r.logger.Error("failed to scan daily learning count", zap.Error(err), zap.Int("user_id", userID))
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
