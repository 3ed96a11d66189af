package handler

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/chetan-code/taskmanager/internal/models"
)

// UserDirectory is the part of the user store the handlers need.
type UserDirectory interface {
	Exists(username string) bool
	Authenticate(username, password string) bool
	Register(username, password string) error
	Usernames() []string
	Count() int
}

// TaskList is the part of the task store the handlers need.
type TaskList interface {
	Add(t models.Task) error
	All() []models.Task
	ForUser(username string) []models.IndexedTask
	Get(index int) (models.Task, error)
	Update(index int, mutate func(*models.Task) error) error
	Count() int
}

// ReportPaths names the two generated overview files.
type ReportPaths struct {
	TaskOverview string
	UserOverview string
}

// Session is everything a command handler may touch: the logged in user,
// the stores and the console.
type Session struct {
	User    string
	Users   UserDirectory
	Tasks   TaskList
	Console *Console
	Reports ReportPaths
	Now     func() time.Time
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Session) IsAdmin() bool {
	return s.User == models.AdminUsername
}

type command struct {
	key       string
	label     string
	adminOnly bool
	run       func(*Session) error
}

var commands = []command{
	{key: "r", label: "Registering a user", run: RegisterUser},
	{key: "a", label: "Adding a task", run: AddTask},
	{key: "va", label: "View all tasks", run: ViewAll},
	{key: "vm", label: "View my task", run: ViewMine},
	{key: "gr", label: "Generate reports", run: GenerateReport},
	{key: "ds", label: "Display statistics", adminOnly: true, run: DisplayStatistics},
}

func (s *Session) menu() string {
	var b strings.Builder
	b.WriteString("Select one of the following options below:\n")
	for _, c := range commands {
		if c.adminOnly && !s.IsAdmin() {
			continue
		}
		b.WriteString(c.key + " - " + c.label + "\n")
	}
	b.WriteString("e - Exit\n: ")
	return b.String()
}

func (s *Session) lookup(key string) (command, bool) {
	for _, c := range commands {
		if c.key == key && (!c.adminOnly || s.IsAdmin()) {
			return c, true
		}
	}
	return command{}, false
}

// Login asks for credentials until a registered pair is entered and returns
// the username.
func Login(c *Console, users UserDirectory) (string, error) {
	for {
		c.Println("LOGIN")
		username, err := c.Prompt("Username: ")
		if err != nil {
			return "", err
		}
		password, err := c.Prompt("Password: ")
		if err != nil {
			return "", err
		}

		if !users.Exists(username) {
			c.Println("User does not exist")
			slog.Info("login_failed", "username", username, "reason", "unknown_user")
			continue
		}
		if !users.Authenticate(username, password) {
			c.Println("Wrong password")
			slog.Info("login_failed", "username", username, "reason", "wrong_password")
			continue
		}

		c.Println("Login Successful!")
		slog.Info("login_success", "username", username)
		return username, nil
	}
}

// Run dispatches menu choices until the user exits. Command errors other
// than closed input are reported and the menu is shown again.
func (s *Session) Run() error {
	for {
		s.Console.Println()
		choice, err := s.Console.Choice(s.menu())
		if err != nil {
			return err
		}

		if choice == "e" {
			s.Console.Println("Goodbye!!!")
			slog.Info("session_exit", "username", s.User)
			return nil
		}

		cmd, ok := s.lookup(choice)
		if !ok {
			s.Console.Println("You have made a wrong choice, Please Try again")
			continue
		}

		if err := cmd.run(s); err != nil {
			if errors.Is(err, ErrInputClosed) {
				return err
			}
			s.Console.Printf("Error: %v\n", err)
			slog.Error("command_failed", "command", cmd.key, "username", s.User, "error", err)
		}
	}
}

// Start logs a user in and runs the menu for them.
func Start(s *Session) error {
	user, err := Login(s.Console, s.Users)
	if err != nil {
		return err
	}
	s.User = user
	return s.Run()
}
