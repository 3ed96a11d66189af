package repository

import (
	"fmt"
	"log/slog"

	"github.com/chetan-code/taskmanager/internal/models"
)

// TaskStore holds tasks in insertion order. Positions in that order are the
// canonical indexes used for edits.
type TaskStore struct {
	backend Backend
	tasks   []models.Task
}

func NewTaskStore(b Backend) *TaskStore {
	return &TaskStore{backend: b}
}

func (s *TaskStore) Load() error {
	tasks, err := s.backend.LoadTasks()
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}
	s.tasks = tasks
	slog.Debug("task_load_success", "count", len(tasks))
	return nil
}

// CheckAssignees logs every task whose assignee is not a known user.
// Such tasks are kept as they are.
func (s *TaskStore) CheckAssignees(exists func(string) bool) int {
	orphans := 0
	for i, t := range s.tasks {
		if !exists(t.Username) {
			orphans++
			slog.Warn("task_orphaned_assignee", "index", i, "username", t.Username, "title", t.Title)
		}
	}
	return orphans
}

func (s *TaskStore) Add(t models.Task) error {
	all := append(append([]models.Task(nil), s.tasks...), t)
	if err := s.backend.InsertTask(t, all); err != nil {
		return fmt.Errorf("could not save task %q: %w", t.Title, err)
	}
	s.tasks = all
	return nil
}

func (s *TaskStore) All() []models.Task {
	return append([]models.Task(nil), s.tasks...)
}

func (s *TaskStore) ForUser(username string) []models.IndexedTask {
	var mine []models.IndexedTask
	for i, t := range s.tasks {
		if t.Username == username {
			mine = append(mine, models.IndexedTask{Index: i, Task: t})
		}
	}
	return mine
}

func (s *TaskStore) Get(index int) (models.Task, error) {
	if index < 0 || index >= len(s.tasks) {
		return models.Task{}, fmt.Errorf("task %d: %w", index, ErrIndexOutOfRange)
	}
	return s.tasks[index], nil
}

// Update applies mutate to a copy of the task at index and persists the
// result. A mutator error leaves the stored task untouched.
func (s *TaskStore) Update(index int, mutate func(*models.Task) error) error {
	current, err := s.Get(index)
	if err != nil {
		return err
	}
	if err := mutate(&current); err != nil {
		return err
	}

	all := s.All()
	all[index] = current
	if err := s.backend.UpdateTask(index, current, all); err != nil {
		return fmt.Errorf("could not save task %d: %w", index, err)
	}
	s.tasks = all
	return nil
}

func (s *TaskStore) Count() int {
	return len(s.tasks)
}
