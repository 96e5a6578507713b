package services

import (
	"errors"
	"testing"
	"time"

	"github.com/navadeep2/learning-task-manager/internal/models"
)

func createTask(t *testing.T, tasks *TaskService, ownerID, title string, dueDate *string) models.Task {
	t.Helper()
	task, err := tasks.Create(ownerID, title, "some description", dueDate)
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return task
}

func daysFromNow(days int) *string {
	d := time.Now().UTC().AddDate(0, 0, days).Format(dueDateLayout)
	return &d
}

func taskIDs(tasks []models.Task) map[string]bool {
	ids := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = true
	}
	return ids
}

func TestCreateForcesOwnerAndProgress(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	task := createTask(t, tasks, teacher.ID, "grade homework", nil)

	if task.OwnerID != teacher.ID {
		t.Errorf("OwnerID = %s, want %s", task.OwnerID, teacher.ID)
	}
	if task.Progress != models.ProgressNotStarted {
		t.Errorf("Progress = %s, want %s", task.Progress, models.ProgressNotStarted)
	}
	if task.OwnerEmail != teacher.Email || task.OwnerRole != models.RoleTeacher {
		t.Errorf("owner enrichment = %s/%s, want %s/%s", task.OwnerEmail, task.OwnerRole, teacher.Email, models.RoleTeacher)
	}
}

func TestCreateValidation(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	cases := []struct {
		name        string
		title       string
		description string
		dueDate     *string
	}{
		{"empty title", "", "desc", nil},
		{"oversized title", string(make([]rune, 300)), "desc", nil},
		{"empty description", "title", "", nil},
		{"malformed due date", "title", "desc", strptr("31-12-2026")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tasks.Create(teacher.ID, tc.title, tc.description, tc.dueDate)
			var vErr ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestVisibility(t *testing.T) {
	users, tasks := newTestServices(t)

	teacher := signupTeacher(t, users, "teacher@example.com")
	s1 := signupStudent(t, users, "s1@example.com", teacher.ID)
	s2 := signupStudent(t, users, "s2@example.com", teacher.ID)
	otherTeacher := signupTeacher(t, users, "other@example.com")

	t0 := createTask(t, tasks, teacher.ID, "t0", nil)
	t1 := createTask(t, tasks, s1.ID, "t1", nil)
	t2 := createTask(t, tasks, s2.ID, "t2", nil)
	createTask(t, tasks, otherTeacher.ID, "unrelated", nil)

	teacherList, err := tasks.List(teacher.ID, models.RoleTeacher, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := taskIDs(teacherList)
	if len(ids) != 3 || !ids[t0.ID] || !ids[t1.ID] || !ids[t2.ID] {
		t.Errorf("teacher sees %v, want exactly {t0,t1,t2}", ids)
	}

	studentList, err := tasks.List(s1.ID, models.RoleStudent, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids = taskIDs(studentList)
	if len(ids) != 1 || !ids[t1.ID] {
		t.Errorf("student sees %v, want exactly {t1}", ids)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	first := createTask(t, tasks, teacher.ID, "first", nil)
	time.Sleep(10 * time.Millisecond)
	second := createTask(t, tasks, teacher.ID, "second", nil)

	list, err := tasks.List(teacher.ID, models.RoleTeacher, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("expected [second, first], got %v", list)
	}
}

func TestDateFilters(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	overdue := createTask(t, tasks, teacher.ID, "overdue", daysFromNow(-1))
	soon := createTask(t, tasks, teacher.ID, "soon", daysFromNow(3))
	undated := createTask(t, tasks, teacher.ID, "undated", nil)

	// Completing the near-term task must not hide it from this-week, but a
	// completed overdue task would no longer count as overdue.
	if _, err := tasks.Update(teacher.ID, soon.ID, TaskUpdate{Progress: strptr(models.ProgressCompleted)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overdueList, err := tasks.List(teacher.ID, models.RoleTeacher, DateFilterOverdue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := taskIDs(overdueList)
	if len(ids) != 1 || !ids[overdue.ID] {
		t.Errorf("overdue filter returned %v, want exactly {overdue}", ids)
	}

	weekList, err := tasks.List(teacher.ID, models.RoleTeacher, DateFilterThisWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids = taskIDs(weekList)
	if len(ids) != 1 || !ids[soon.ID] {
		t.Errorf("this-week filter returned %v, want exactly {soon}", ids)
	}

	allList, err := tasks.List(teacher.ID, models.RoleTeacher, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !taskIDs(allList)[undated.ID] {
		t.Error("undated task missing from the unfiltered list")
	}
}

func TestCompletedOverdueTaskIsNotOverdue(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	task := createTask(t, tasks, teacher.ID, "late but done", daysFromNow(-2))
	if _, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{Progress: strptr(models.ProgressCompleted)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := tasks.List(teacher.ID, models.RoleTeacher, DateFilterOverdue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("completed task should not be overdue, got %v", list)
	}
}

func TestTeacherCannotMutateStudentTask(t *testing.T) {
	users, tasks := newTestServices(t)

	teacher := signupTeacher(t, users, "teacher@example.com")
	student := signupStudent(t, users, "student@example.com", teacher.ID)
	task := createTask(t, tasks, student.ID, "student work", nil)

	_, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{Title: strptr("hijacked")})
	if !errors.Is(err, ErrNotTaskOwner) {
		t.Errorf("update: expected ErrNotTaskOwner, got %v", err)
	}

	if err := tasks.Delete(teacher.ID, task.ID); !errors.Is(err, ErrNotTaskOwner) {
		t.Errorf("delete: expected ErrNotTaskOwner, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")
	task := createTask(t, tasks, teacher.ID, "original", daysFromNow(5))

	updated, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{Progress: strptr(models.ProgressInProgress)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Progress != models.ProgressInProgress {
		t.Errorf("Progress = %s, want %s", updated.Progress, models.ProgressInProgress)
	}
	if updated.Title != "original" || updated.Description != task.Description {
		t.Error("unspecified fields must stay untouched")
	}
	if updated.DueDate == nil || *updated.DueDate != *task.DueDate {
		t.Errorf("DueDate = %v, want %v", updated.DueDate, *task.DueDate)
	}
}

func TestUpdateClearsDueDate(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")
	task := createTask(t, tasks, teacher.ID, "dated", daysFromNow(5))

	updated, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{DueDate: strptr("")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", *updated.DueDate)
	}
}

func TestUpdateValidation(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")
	task := createTask(t, tasks, teacher.ID, "task", nil)

	var vErr ValidationError

	if _, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{}); !errors.As(err, &vErr) {
		t.Errorf("empty update: expected ValidationError, got %v", err)
	}
	if _, err := tasks.Update(teacher.ID, task.ID, TaskUpdate{Progress: strptr("done")}); !errors.As(err, &vErr) {
		t.Errorf("bad progress: expected ValidationError, got %v", err)
	}
}

func TestUpdateMissingTask(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")

	_, err := tasks.Update(teacher.ID, "no-such-id", TaskUpdate{Title: strptr("x")})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteThenDeleteAgain(t *testing.T) {
	users, tasks := newTestServices(t)
	teacher := signupTeacher(t, users, "teacher@example.com")
	task := createTask(t, tasks, teacher.ID, "ephemeral", nil)

	if err := tasks.Delete(teacher.ID, task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := tasks.List(teacher.ID, models.RoleTeacher, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskIDs(list)[task.ID] {
		t.Error("deleted task still listed")
	}

	if err := tasks.Delete(teacher.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}
