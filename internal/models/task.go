package models

import (
	"errors"
	"time"
)

// ErrTaskCompleted is returned when an edit other than the completion
// toggle is attempted on a finished task.
var ErrTaskCompleted = errors.New("completed tasks cannot be edited")

type Task struct {
	Username     string    `json:"username"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"due_date"`
	AssignedDate time.Time `json:"assigned_date"`
	Completed    bool      `json:"completed"`
}

// IndexedTask pairs a task with its position in the full task list.
type IndexedTask struct {
	Index int
	Task  Task
}

func (t *Task) ToggleCompleted() {
	t.Completed = !t.Completed
}

func (t *Task) Reassign(username string) error {
	if t.Completed {
		return ErrTaskCompleted
	}
	t.Username = username
	return nil
}

func (t *Task) Reschedule(due time.Time) error {
	if t.Completed {
		return ErrTaskCompleted
	}
	t.DueDate = DateOf(due)
	return nil
}

// Overdue reports whether the task is unfinished and its due date is before now.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}

// Equal compares tasks field by field, dates by instant.
func (t Task) Equal(o Task) bool {
	return t.Username == o.Username &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.DueDate.Equal(o.DueDate) &&
		t.AssignedDate.Equal(o.AssignedDate) &&
		t.Completed == o.Completed
}

// DateOf drops the clock part of t, keeping local midnight of the same day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
