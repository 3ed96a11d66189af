package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chetan-code/taskmanager/internal/models"
)

const defaultAdminPassword = "password"

// UserStore keeps every registered user in memory and writes through to the
// backend on registration.
type UserStore struct {
	backend     Backend
	credentials Credentials
	users       []models.User
	index       map[string]int
}

func NewUserStore(b Backend, c Credentials) *UserStore {
	if c == nil {
		c = PlainCredentials{}
	}
	return &UserStore{backend: b, credentials: c, index: map[string]int{}}
}

// Load reads all users; when a username repeats, the last record wins.
// Missing storage is initialised with the default admin account before
// loading.
func (s *UserStore) Load() error {
	users, err := s.backend.LoadUsers()
	if errors.Is(err, ErrNoStorage) {
		slog.Info("user_storage_missing", "action", "seed_default_admin")
		return s.seedAdmin()
	}
	if err != nil {
		return fmt.Errorf("could not load users: %w", err)
	}

	s.users = make([]models.User, 0, len(users))
	s.index = make(map[string]int, len(users))
	for _, u := range users {
		if i, dup := s.index[u.Username]; dup {
			slog.Warn("user_duplicate_record", "username", u.Username, "kept", "last")
			s.users[i] = u
			continue
		}
		s.index[u.Username] = len(s.users)
		s.users = append(s.users, u)
	}
	slog.Debug("user_load_success", "count", len(s.users))
	return nil
}

func (s *UserStore) seedAdmin() error {
	s.users = nil
	s.index = map[string]int{}
	return s.insert(models.AdminUsername, defaultAdminPassword)
}

func (s *UserStore) Exists(username string) bool {
	_, ok := s.index[username]
	return ok
}

func (s *UserStore) Authenticate(username, password string) bool {
	i, ok := s.index[username]
	if !ok {
		return false
	}
	return s.credentials.Match(s.users[i].Password, password)
}

// Register adds a new user and persists it immediately. The store is left
// unchanged when the username is taken or the backend write fails.
func (s *UserStore) Register(username, password string) error {
	if s.Exists(username) {
		return fmt.Errorf("register %q: %w", username, ErrDuplicateUser)
	}
	return s.insert(username, password)
}

func (s *UserStore) insert(username, password string) error {
	sealed, err := s.credentials.Seal(password)
	if err != nil {
		return err
	}
	u := models.User{Username: username, Password: sealed}

	all := append(append([]models.User(nil), s.users...), u)
	if err := s.backend.InsertUser(u, all); err != nil {
		return fmt.Errorf("could not save user %q: %w", username, err)
	}
	s.users = all
	s.index[username] = len(all) - 1
	return nil
}

// Usernames returns every username in registration order.
func (s *UserStore) Usernames() []string {
	names := make([]string, len(s.users))
	for i, u := range s.users {
		names[i] = u.Username
	}
	return names
}

func (s *UserStore) Count() int {
	return len(s.users)
}
