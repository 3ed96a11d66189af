package handler

import (
	"errors"
	"log/slog"

	"github.com/chetan-code/taskmanager/internal/record"
	"github.com/chetan-code/taskmanager/internal/repository"
)

// RegisterUser prompts for a new username and a confirmed password and adds
// the account. Taken usernames and mismatched passwords start over.
func RegisterUser(s *Session) error {
	c := s.Console
	for {
		username, err := c.Prompt("New Username: ")
		if err != nil {
			return err
		}
		if username == "" {
			c.Println("Username cannot be empty")
			continue
		}
		if err := record.CheckField("username", username); err != nil {
			c.Println(capitalize(err.Error()))
			continue
		}
		if s.Users.Exists(username) {
			c.Println("Username already exists please try again")
			continue
		}

		password, err := c.Prompt("New Password: ")
		if err != nil {
			return err
		}
		confirm, err := c.Prompt("Confirm Password: ")
		if err != nil {
			return err
		}
		if err := record.CheckField("password", password); err != nil {
			c.Println(capitalize(err.Error()))
			continue
		}
		if password != confirm {
			c.Println("Passwords do not match")
			continue
		}

		err = s.Users.Register(username, password)
		if errors.Is(err, repository.ErrDuplicateUser) {
			c.Println("Username already exists please try again")
			continue
		}
		if err != nil {
			slog.Error("user_register_failed", "username", username, "error", err)
			return err
		}

		c.Println("New user added")
		slog.Info("user_register_success", "username", username, "registered_by", s.User)
		return nil
	}
}
