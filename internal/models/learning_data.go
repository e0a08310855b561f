package models

import "time"

// DateLayout is the calendar date format used in API responses
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// LearningEpoch is the calendar day stored as learned_date = 0.
//
// Both the storage representation (integer day offsets) and the API representation
// (YYYY-MM-DD strings) are derived from this value, so it must not be duplicated.
var LearningEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// LearningRecord represents a single learned sentence stored in the learning_data table
type LearningRecord struct {
	ID          int `db:"id" json:"id"`
	UserID      int `db:"user_id" json:"userId"`
	LearnedDate int `db:"learned_date" json:"learnedDate"` // days since LearningEpoch
}

// DailyCount is one aggregated row of learning records for a single learned_date
type DailyCount struct {
	LearnedDate   int `db:"learned_date"`
	SentenceCount int `db:"sentence_count"`
}

// DailySummaryEntry represents the number of sentences a user learned on one day
type DailySummaryEntry struct {
	Date          string `json:"date" example:"2024-01-06"`
	SentenceCount int    `json:"sentence_count" example:"3"`
}

// LearnedDateToString converts a learned_date day offset into a YYYY-MM-DD string
func LearnedDateToString(offset int) string {
	return LearningEpoch.AddDate(0, 0, offset).Format(DateLayout)
}

// LearnedDateFromTime returns the learned_date day offset of the calendar day of t.
//
// The calendar day is taken in t's own location, so callers decide which time zone
// defines "today" for a user.
func LearnedDateFromTime(t time.Time) int {
	year, month, day := t.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Both values are UTC midnights, so the difference is a whole number of days.
	// time.Duration would overflow about 292 years away from the epoch.
	return int((date.Unix() - LearningEpoch.Unix()) / secondsPerDay)
}
