package services

import (
	"database/sql"
	"testing"

	"github.com/navadeep2/learning-task-manager/internal/database"
	"github.com/navadeep2/learning-task-manager/internal/models"
)

// newTestDB opens an in-memory SQLite database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// An in-memory database exists per connection; keep the pool at one.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServices(t *testing.T) (*UserService, *TaskService) {
	t.Helper()
	db := newTestDB(t)
	activity := NewActivityService(db)
	return NewUserService(db, activity), NewTaskService(db, activity)
}

func signupTeacher(t *testing.T, users *UserService, email string) models.User {
	t.Helper()
	user, err := users.Signup(email, "password123", models.RoleTeacher, nil)
	if err != nil {
		t.Fatalf("failed to sign up teacher %s: %v", email, err)
	}
	return user
}

func signupStudent(t *testing.T, users *UserService, email, teacherID string) models.User {
	t.Helper()
	user, err := users.Signup(email, "password123", models.RoleStudent, &teacherID)
	if err != nil {
		t.Fatalf("failed to sign up student %s: %v", email, err)
	}
	return user
}

func strptr(s string) *string { return &s }
