package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/navadeep2/learning-task-manager/internal/auth"
	"github.com/navadeep2/learning-task-manager/internal/models"
	"github.com/navadeep2/learning-task-manager/internal/services"
)

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	service   services.UserServiceProvider
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, jwtSecret string) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	TeacherID *string `json:"teacherId"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new user registration. No token is issued; the user must
// log in afterwards.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.Signup(payload.Email, payload.Password, payload.Role, payload.TeacherID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true})
}

// Login handles user authentication and JWT issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := auth.GenerateJWT(user, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	// Teachers advertise their own id as teacherId so students can reference
	// it at signup; students get back their stored supervisor.
	teacherID := user.ID
	if user.Role == models.RoleStudent && user.SupervisorID != nil {
		teacherID = *user.SupervisorID
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"token":     token,
		"role":      user.Role,
		"userId":    user.ID,
		"teacherId": teacherID,
	})
}
