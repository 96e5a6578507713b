package handlers

import (
	"net/http"
	"strconv"

	"github.com/navadeep2/learning-task-manager/internal/auth"
	"github.com/navadeep2/learning-task-manager/internal/models"
	"github.com/navadeep2/learning-task-manager/internal/services"
)

// ActivityHandler handles HTTP requests for the activity log.
type ActivityHandler struct {
	service services.ActivityServiceProvider
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service services.ActivityServiceProvider) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// GetRecent handles the request to get the requester's recent activity.
func (h *ActivityHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no token")
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	events, err := h.service.GetRecentForActor(claims.UserID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}
