package models

import "time"

// Roles a user can sign up as.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         string    `json:"role"`
	SupervisorID *string   `json:"supervisorId,omitempty"` // Set for students only
	CreatedAt    time.Time `json:"createdAt"`
}
