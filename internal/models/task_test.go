package models

import (
	"errors"
	"testing"
	"time"
)

func newTask() Task {
	return Task{
		Username:     "bob",
		Title:        "T1",
		Description:  "desc",
		DueDate:      time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local),
		AssignedDate: time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local),
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	task := newTask()
	orig := task
	task.ToggleCompleted()
	if !task.Completed {
		t.Fatal("expected completed")
	}
	task.ToggleCompleted()
	if !task.Equal(orig) {
		t.Errorf("got %+v, want %+v", task, orig)
	}
}

func TestCompletedTaskIsLocked(t *testing.T) {
	task := newTask()
	task.Completed = true
	orig := task

	if err := task.Reassign("admin"); !errors.Is(err, ErrTaskCompleted) {
		t.Errorf("Reassign: got %v", err)
	}
	if err := task.Reschedule(time.Now()); !errors.Is(err, ErrTaskCompleted) {
		t.Errorf("Reschedule: got %v", err)
	}
	if !task.Equal(orig) {
		t.Errorf("task changed: %+v", task)
	}
}

func TestRescheduleDropsClock(t *testing.T) {
	task := newTask()
	if err := task.Reschedule(time.Date(2031, 3, 4, 17, 45, 0, 0, time.Local)); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2031, 3, 4, 0, 0, 0, 0, time.Local)
	if !task.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", task.DueDate, want)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
	tests := []struct {
		name      string
		due       time.Time
		completed bool
		want      bool
	}{
		{"past and open", now.AddDate(0, 0, -1), false, true},
		{"past and done", now.AddDate(0, 0, -1), true, false},
		{"future", now.AddDate(0, 0, 1), false, false},
		{"due today", DateOf(now), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{DueDate: DateOf(tt.due), Completed: tt.completed}
			if got := task.Overdue(now); got != tt.want {
				t.Errorf("Overdue = %v, want %v", got, tt.want)
			}
		})
	}
}
