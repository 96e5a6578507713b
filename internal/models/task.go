package models

import "time"

// Progress states a task moves through.
const (
	ProgressNotStarted = "not-started"
	ProgressInProgress = "in-progress"
	ProgressCompleted  = "completed"
)

// ValidProgress reports whether p is one of the known progress states.
func ValidProgress(p string) bool {
	return p == ProgressNotStarted || p == ProgressInProgress || p == ProgressCompleted
}

// Task represents a single tracked task owned by a user.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"dueDate,omitempty"` // ISO date YYYY-MM-DD
	Progress    string    `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`

	// Owner enrichment for listings; populated by joins, not stored on the row.
	OwnerEmail string `json:"ownerEmail,omitempty"`
	OwnerRole  string `json:"ownerRole,omitempty"`
}
