package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/navadeep2/learning-task-manager/internal/models"
)

// Date filters accepted by List. Anything else applies no date restriction.
const (
	DateFilterOverdue  = "overdue"
	DateFilterThisWeek = "this-week"
)

const (
	maxTitleLength = 255
	dueDateLayout  = "2006-01-02"
)

// TaskUpdate carries the fields of a partial task update. Nil means "leave
// untouched"; a pointer to an empty DueDate string clears the due date.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Progress    *string `json:"progress"`
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	List(requesterID, requesterRole, dateFilter string) ([]models.Task, error)
	Create(ownerID, title, description string, dueDate *string) (models.Task, error)
	Update(requesterID, taskID string, update TaskUpdate) (models.Task, error)
	Delete(requesterID, taskID string) error
	GetTaskByID(taskID string) (models.Task, error)
}

// TaskService provides business logic for task management, including the
// role-based visibility rules.
type TaskService struct {
	db       *sql.DB
	activity ActivityServiceProvider
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, activity ActivityServiceProvider) *TaskService {
	return &TaskService{db: db, activity: activity}
}

// List returns the tasks visible to the requester, newest first. Students see
// only their own tasks; teachers additionally see tasks owned by their
// students. The optional date filter is AND-ed onto the visibility set.
func (s *TaskService) List(requesterID, requesterRole, dateFilter string) ([]models.Task, error) {
	query := `
		SELECT t.id, t.owner_id, t.title, t.description, t.due_date, t.progress, t.created_at, u.email, u.role
		FROM tasks t
		JOIN users u ON u.id = t.owner_id`
	var args []interface{}

	if requesterRole == models.RoleTeacher {
		// Teachers can read their students' tasks but never write them; the
		// write-side ownership check lives in Update/Delete.
		query += " WHERE (t.owner_id = ? OR u.supervisor_id = ?)"
		args = append(args, requesterID, requesterID)
	} else {
		query += " WHERE t.owner_id = ?"
		args = append(args, requesterID)
	}

	today := time.Now().UTC().Format(dueDateLayout)
	switch dateFilter {
	case DateFilterOverdue:
		query += " AND t.due_date IS NOT NULL AND t.due_date < ? AND t.progress != ?"
		args = append(args, today, models.ProgressCompleted)
	case DateFilterThisWeek:
		weekEnd := time.Now().UTC().AddDate(0, 0, 7).Format(dueDateLayout)
		query += " AND t.due_date IS NOT NULL AND t.due_date >= ? AND t.due_date <= ?"
		args = append(args, today, weekEnd)
	}

	query += " ORDER BY t.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanTasks(rows)
}

// Create validates the input and stores a new task. The owner and the initial
// progress are always set server-side, never taken from the client.
func (s *TaskService) Create(ownerID, title, description string, dueDate *string) (models.Task, error) {
	if err := validateTitle(title); err != nil {
		return models.Task{}, err
	}
	if description == "" {
		return models.Task{}, validationError("description is required")
	}
	dueDate, err := normalizeDueDate(dueDate)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Progress:    models.ProgressNotStarted,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.Exec(
		"INSERT INTO tasks (id, owner_id, title, description, due_date, progress, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.OwnerID, task.Title, task.Description, task.DueDate, task.Progress, task.CreatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	s.activity.RecordEvent("task.create", fmt.Sprintf("Task '%s' created.", task.Title), ownerID, &task.ID)
	return s.GetTaskByID(task.ID)
}

// Update applies a partial update to a task owned by the requester. Only the
// supplied fields change. A teacher updating a student's task is rejected the
// same as any other non-owner.
func (s *TaskService) Update(requesterID, taskID string, update TaskUpdate) (models.Task, error) {
	if update.Title == nil && update.Description == nil && update.DueDate == nil && update.Progress == nil {
		return models.Task{}, validationError("no fields to update")
	}

	existing, err := s.GetTaskByID(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if existing.OwnerID != requesterID {
		return models.Task{}, ErrNotTaskOwner
	}

	var sets []string
	var args []interface{}

	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			return models.Task{}, err
		}
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		if *update.Description == "" {
			return models.Task{}, validationError("description cannot be empty")
		}
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.DueDate != nil {
		dueDate, err := normalizeDueDate(update.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		sets = append(sets, "due_date = ?")
		args = append(args, dueDate)
	}
	if update.Progress != nil {
		if !models.ValidProgress(*update.Progress) {
			return models.Task{}, validationError("invalid progress value")
		}
		sets = append(sets, "progress = ?")
		args = append(args, *update.Progress)
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_id = ?"
	args = append(args, taskID, requesterID)

	// Matching on id AND owner in one statement keeps the write atomic with
	// the ownership condition.
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return models.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, ErrTaskNotFound
	}

	s.activity.RecordEvent("task.update", fmt.Sprintf("Task '%s' updated.", existing.Title), requesterID, &taskID)
	return s.GetTaskByID(taskID)
}

// Delete removes a task owned by the requester.
func (s *TaskService) Delete(requesterID, taskID string) error {
	existing, err := s.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if existing.OwnerID != requesterID {
		return ErrNotTaskOwner
	}

	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ? AND owner_id = ?", taskID, requesterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}

	s.activity.RecordEvent("task.delete", fmt.Sprintf("Task '%s' was deleted.", existing.Title), requesterID, &taskID)
	return nil
}

// GetTaskByID retrieves a single task by its ID, enriched with owner details.
func (s *TaskService) GetTaskByID(taskID string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT t.id, t.owner_id, t.title, t.description, t.due_date, t.progress, t.created_at, u.email, u.role
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = ?`, taskID)
	return s.scanTask(row)
}

// scanTasks is a helper function to scan multiple rows into a slice of Tasks.
func (s *TaskService) scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// scanTask is a helper function to scan a single row into a Task struct.
func (s *TaskService) scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	var dueDate sql.NullString
	err := scanner.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.Progress,
		&task.CreatedAt,
		&task.OwnerEmail,
		&task.OwnerRole,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	return task, nil
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n == 0 || n > maxTitleLength {
		return validationError(fmt.Sprintf("title must be between 1 and %d characters", maxTitleLength))
	}
	return nil
}

// normalizeDueDate validates an optional YYYY-MM-DD date. An explicit empty
// string clears the date.
func normalizeDueDate(dueDate *string) (*string, error) {
	if dueDate == nil || *dueDate == "" {
		return nil, nil
	}
	if _, err := time.Parse(dueDateLayout, *dueDate); err != nil {
		return nil, validationError("dueDate must be a valid YYYY-MM-DD date")
	}
	return dueDate, nil
}
