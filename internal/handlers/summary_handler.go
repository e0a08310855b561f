package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/learning-summary/internal/auth/middleware"
	"github.com/japanesestudent/learning-summary/internal/models"
	"go.uber.org/zap"
)

// SummaryService is the interface that wraps methods for learning summary business logic
type SummaryService interface {
	// Method GetDailySummary retrieves the number of sentences learned per day by a user.
	//
	// "userID" parameter is used to identify the user.
	// Entries are ordered by ascending date, an empty slice is returned for a user without records.
	// If some error occurs during data retrieval, the error will be returned together with "nil" value.
	GetDailySummary(ctx context.Context, userID int) ([]models.DailySummaryEntry, error)
}

// SummaryHandler handles learning summary HTTP requests
type SummaryHandler struct {
	BaseHandler
	service SummaryService
}

// NewSummaryHandler creates a new learning summary handler
func NewSummaryHandler(svc SummaryService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all learning summary routes
func (h *SummaryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/learning", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/daily-summary", h.GetDailySummary)
	})
}

// GetDailySummary handles GET /learning/daily-summary
// @Summary Get daily learning summary
// @Description Get the number of sentences the authenticated user learned on each day, oldest day first. Requires authentication.
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.DailySummaryEntry "Daily summary"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /learning/daily-summary [get]
func (h *SummaryHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	// Extract userID from auth middleware context
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	summary, err := h.service.GetDailySummary(r.Context(), userID)
	if err != nil {
		h.RespondServerError(w, r, "failed to get daily summary", err, zap.Int("user_id", userID))
		return
	}

	h.RespondJSON(w, http.StatusOK, summary)
}
