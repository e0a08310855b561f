package services

import (
	"context"
	"fmt"

	"github.com/japanesestudent/learning-summary/internal/models"
)

// LearningDataRepository is the interface that wraps methods for learning_data table data access
type LearningDataRepository interface {
	// Method GetDailyCounts retrieves the number of learning records per learned_date for a user.
	//
	// "userID" parameter is used to identify the user.
	// Rows must be ordered by ascending learned_date.
	// If some error occurs during data retrieval, the error will be returned together with "nil" value.
	GetDailyCounts(ctx context.Context, userID int) ([]models.DailyCount, error)
}

type summaryService struct {
	repo LearningDataRepository
}

// NewSummaryService creates a new learning summary service
func NewSummaryService(repo LearningDataRepository) *summaryService {
	return &summaryService{
		repo: repo,
	}
}

// GetDailySummary returns the number of sentences the user learned per day, oldest day first.
//
// Each learned_date is converted to a calendar date relative to models.LearningEpoch.
// A user without records gets an empty, non-nil slice.
func (s *summaryService) GetDailySummary(ctx context.Context, userID int) ([]models.DailySummaryEntry, error) {
	counts, err := s.repo.GetDailyCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}

	summary := make([]models.DailySummaryEntry, 0, len(counts))
	for _, count := range counts {
		summary = append(summary, models.DailySummaryEntry{
			Date:          models.LearnedDateToString(count.LearnedDate),
			SentenceCount: count.SentenceCount,
		})
	}

	return summary, nil
}
