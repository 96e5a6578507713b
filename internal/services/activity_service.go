package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/navadeep2/learning-task-manager/internal/models"
)

// ActivityServiceProvider defines the interface for the activity log.
type ActivityServiceProvider interface {
	RecordEvent(eventType, message, actorID string, taskID *string) error
	GetRecentForActor(actorID string, limit int) ([]models.Event, error)
}

// ActivityService records and serves per-user activity events.
type ActivityService struct {
	db *sql.DB
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{db: db}
}

// RecordEvent logs a new event to the database.
func (s *ActivityService) RecordEvent(eventType, message, actorID string, taskID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Message:   message,
		ActorID:   actorID,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO events (id, type, message, actor_id, task_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Message, event.ActorID, event.TaskID, event.CreatedAt,
	)
	return err
}

// GetRecentForActor retrieves the most recent events recorded for one user.
func (s *ActivityService) GetRecentForActor(actorID string, limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, message, actor_id, task_id, created_at FROM events WHERE actor_id = ? ORDER BY created_at DESC LIMIT ?",
		actorID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Message, &event.ActorID, &event.TaskID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
