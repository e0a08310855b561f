package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/learning-summary/internal/auth/middleware"
	"github.com/japanesestudent/learning-summary/internal/auth/service"
	"github.com/japanesestudent/learning-summary/internal/config"
	"github.com/japanesestudent/learning-summary/internal/database"
	"github.com/japanesestudent/learning-summary/internal/handlers"
	"github.com/japanesestudent/learning-summary/internal/models"
	"github.com/japanesestudent/learning-summary/internal/repositories"
	"github.com/japanesestudent/learning-summary/internal/services"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB             *sqlx.DB
	testRouter         chi.Router
	testLogger         *zap.Logger
	testTokenGenerator *service.TokenGenerator
)

// seedTestData inserts learning records into the database
func seedTestData(t *testing.T, db *sqlx.DB, records []models.LearningRecord) {
	t.Helper()

	// Clear existing data
	_, err := db.Exec("DELETE FROM learning_data")
	require.NoError(t, err, "Failed to clear test data")

	for _, record := range records {
		_, err := db.NamedExec(`INSERT INTO learning_data (user_id, learned_date) VALUES (:user_id, :learned_date)`, record)
		require.NoError(t, err, "Failed to seed test data")
	}
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec("DELETE FROM learning_data")
	require.NoError(t, err, "Failed to cleanup test data")
}

// setupTestRouter creates a test router with all handlers
func setupTestRouter(db *sqlx.DB, tokenGenerator *service.TokenGenerator, logger *zap.Logger) chi.Router {
	repo := repositories.NewLearningDataRepository(db, logger)
	svc := services.NewSummaryService(repo)
	summaryHandler := handlers.NewSummaryHandler(svc, logger)
	authMiddleware := middleware.AuthMiddleware(middleware.NewTokenResolver(tokenGenerator))

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		summaryHandler.RegisterRoutes(r, authMiddleware)
	})

	return r
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	// Initialize logger
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Setup test database
	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	if cfg.DSN() == "" {
		fmt.Println("TEST_DB_* variables are not set, skipping integration tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	testDB, err = database.Connect(ctx, cfg, testLogger)
	cancel()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	// Setup test schema
	setupTestSchemaForMain(testDB)

	testTokenGenerator = service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	testRouter = setupTestRouter(testDB, testTokenGenerator, testLogger)

	// Run tests
	code := m.Run()

	// Cleanup
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// setupTestSchemaForMain creates the test database schema (for TestMain)
func setupTestSchemaForMain(db *sqlx.DB) {
	query := `
		CREATE TABLE IF NOT EXISTS learning_data (
			id INT PRIMARY KEY AUTO_INCREMENT,
			user_id INT NOT NULL,
			learned_date INT NOT NULL,
			INDEX idx_user_learned_date (user_id, learned_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`

	db.Exec(query)
}

// day returns the learned_date value of a calendar day
func day(year int, month time.Month, d int) int {
	return models.LearnedDateFromTime(time.Date(year, month, d, 12, 0, 0, 0, time.UTC))
}

// getDailySummary sends an authenticated request to the daily summary endpoint
func getDailySummary(t *testing.T, userID int) *httptest.ResponseRecorder {
	t.Helper()
	token, err := testTokenGenerator.GenerateAccessToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/learning/daily-summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	return w
}

func TestIntegration_GetDailySummary(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	seedTestData(t, testDB, []models.LearningRecord{
		{UserID: 1, LearnedDate: day(2024, time.January, 1)},
		{UserID: 1, LearnedDate: day(2024, time.January, 1)},
		{UserID: 1, LearnedDate: day(2024, time.January, 6)},
		{UserID: 1, LearnedDate: day(2024, time.February, 29)},
		{UserID: 1, LearnedDate: day(2025, time.January, 1)},
		{UserID: 2, LearnedDate: day(2024, time.January, 1)},
		{UserID: 2, LearnedDate: day(2024, time.March, 3)},
	})
	defer cleanupTestData(t, testDB)

	tests := []struct {
		name            string
		userID          int
		expectedSummary []models.DailySummaryEntry
	}{
		{
			name:   "user with records on several days",
			userID: 1,
			expectedSummary: []models.DailySummaryEntry{
				{Date: "2024-01-01", SentenceCount: 2},
				{Date: "2024-01-06", SentenceCount: 1},
				{Date: "2024-02-29", SentenceCount: 1},
				{Date: "2025-01-01", SentenceCount: 1},
			},
		},
		{
			name:   "other user",
			userID: 2,
			expectedSummary: []models.DailySummaryEntry{
				{Date: "2024-01-01", SentenceCount: 1},
				{Date: "2024-03-03", SentenceCount: 1},
			},
		},
		{
			name:            "user without records",
			userID:          3,
			expectedSummary: []models.DailySummaryEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getDailySummary(t, tt.userID)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var summary []models.DailySummaryEntry
			err := json.Unmarshal(w.Body.Bytes(), &summary)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSummary, summary)
		})
	}
}

func TestIntegration_GetDailySummary_EmptyArray(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	seedTestData(t, testDB, nil)

	w := getDailySummary(t, 1)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestIntegration_GetDailySummary_Unauthenticated(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/learning/daily-summary", nil)
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
}
