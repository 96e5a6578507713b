package services

import (
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/navadeep2/learning-task-manager/internal/models"
)

const minPasswordLength = 6

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(email, password, role string, supervisorID *string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for signup and authentication.
type UserService struct {
	db       *sql.DB
	activity ActivityServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, activity ActivityServiceProvider) *UserService {
	return &UserService{db: db, activity: activity}
}

// Signup validates the registration input, hashes the password and stores a
// new user. It returns no token; the user logs in separately.
func (s *UserService) Signup(email, password, role string, supervisorID *string) (models.User, error) {
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return models.User{}, validationError("invalid email address")
	}
	if len(password) < minPasswordLength {
		return models.User{}, validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if role != models.RoleTeacher && role != models.RoleStudent {
		return models.User{}, validationError("role must be teacher or student")
	}

	if role == models.RoleStudent {
		if supervisorID == nil || *supervisorID == "" {
			return models.User{}, validationError("students must provide a teacherId")
		}
		// Soft invariant: the supervisor must be an existing teacher. Checked
		// with a plain read, not transactionally.
		var id string
		err := s.db.QueryRow("SELECT id FROM users WHERE id = ? AND role = ?", *supervisorID, models.RoleTeacher).Scan(&id)
		if err == sql.ErrNoRows {
			return models.User{}, validationError("teacherId does not reference a teacher")
		}
		if err != nil {
			return models.User{}, err
		}
	} else {
		// A teacher's supervisorId is ignored even if supplied.
		supervisorID = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		SupervisorID: supervisorID,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, email, password_hash, role, supervisor_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.Role, user.SupervisorID, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	s.activity.RecordEvent("user.signup", fmt.Sprintf("Account created for %s.", user.Email), user.ID, nil)

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password both return ErrInvalidCredentials so the response gives no
// user-enumeration signal.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, role, supervisor_id, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Role, &user.SupervisorID, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", id)
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by email, including the password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, role, supervisor_id, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.SupervisorID, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
