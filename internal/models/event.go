package models

import "time"

// Event represents a loggable action in the system, e.g. a task being created.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g. "task.create", "user.signup"
	Message   string    `json:"message"`
	ActorID   string    `json:"actorId"`
	TaskID    *string   `json:"taskId,omitempty"` // Nullable for account-level events
	CreatedAt time.Time `json:"createdAt"`
}
