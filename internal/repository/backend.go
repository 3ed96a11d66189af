package repository

import (
	"errors"

	"github.com/chetan-code/taskmanager/internal/models"
)

var (
	// ErrNoStorage is returned by Backend.LoadUsers when no user storage
	// exists yet, telling the user store to seed the default account.
	ErrNoStorage = errors.New("user storage does not exist")

	ErrDuplicateUser   = errors.New("username already exists")
	ErrIndexOutOfRange = errors.New("task index out of range")
)

// Backend persists users and tasks. Every mutating call receives the full
// in-memory list after the change so a backend may either write the single
// record or rewrite everything.
type Backend interface {
	LoadUsers() ([]models.User, error)
	InsertUser(u models.User, all []models.User) error

	LoadTasks() ([]models.Task, error)
	InsertTask(t models.Task, all []models.Task) error
	UpdateTask(index int, t models.Task, all []models.Task) error

	Close() error
}
