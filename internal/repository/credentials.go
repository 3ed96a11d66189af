package repository

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials decides how passwords are stored and compared.
type Credentials interface {
	Seal(password string) (string, error)
	Match(stored, password string) bool
}

// PlainCredentials stores passwords as typed and compares them exactly.
type PlainCredentials struct{}

func (PlainCredentials) Seal(password string) (string, error) {
	return password, nil
}

func (PlainCredentials) Match(stored, password string) bool {
	return stored == password
}

// BcryptCredentials stores bcrypt hashes.
type BcryptCredentials struct {
	Cost int
}

func (c BcryptCredentials) Seal(password string) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptCredentials) Match(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewCredentials maps a configured policy name to its implementation.
func NewCredentials(policy string) (Credentials, error) {
	switch policy {
	case "", "plain":
		return PlainCredentials{}, nil
	case "bcrypt":
		return BcryptCredentials{}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing policy %q (expected plain|bcrypt)", policy)
	}
}
