package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newFileStores(t *testing.T) (*FileBackend, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileBackend(filepath.Join(dir, "user.txt"), filepath.Join(dir, "tasks.txt")), dir
}

func TestUserStoreSeedsAdmin(t *testing.T) {
	b, dir := newFileStores(t)
	users := NewUserStore(b, nil)
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !users.Authenticate("admin", "password") {
		t.Error("expected default admin credentials to authenticate")
	}
	data, err := os.ReadFile(filepath.Join(dir, "user.txt"))
	if err != nil {
		t.Fatalf("users file not created: %v", err)
	}
	if string(data) != "admin;password" {
		t.Errorf("users file = %q", data)
	}
}

func TestUserStoreRegister(t *testing.T) {
	b, dir := newFileStores(t)
	users := NewUserStore(b, nil)
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := users.Register("bob", "pw123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := users.Usernames(); len(got) != 2 || got[0] != "admin" || got[1] != "bob" {
		t.Errorf("Usernames = %v", got)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "user.txt"))
	if string(data) != "admin;password\nbob;pw123" {
		t.Errorf("users file = %q", data)
	}

	// a fresh store sees the flushed registration
	reloaded := NewUserStore(b, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Authenticate("bob", "pw123") {
		t.Error("bob should authenticate after reload")
	}
}

func TestUserStoreRegisterDuplicate(t *testing.T) {
	b, dir := newFileStores(t)
	users := NewUserStore(b, nil)
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before, _ := os.ReadFile(filepath.Join(dir, "user.txt"))

	err := users.Register("admin", "other")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if users.Count() != 1 {
		t.Errorf("Count = %d, want 1", users.Count())
	}
	if !users.Authenticate("admin", "password") {
		t.Error("original password must still match")
	}
	after, _ := os.ReadFile(filepath.Join(dir, "user.txt"))
	if string(before) != string(after) {
		t.Errorf("users file changed: %q -> %q", before, after)
	}
}

func TestUserStoreAuthenticate(t *testing.T) {
	b, _ := newFileStores(t)
	users := NewUserStore(b, nil)
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "password", true},
		{"admin", "Password", false},
		{"Admin", "password", false},
		{"nobody", "password", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := users.Authenticate(tt.user, tt.pass); got != tt.want {
			t.Errorf("Authenticate(%q, %q) = %v, want %v", tt.user, tt.pass, got, tt.want)
		}
	}
}

func TestUserStoreBcrypt(t *testing.T) {
	b, dir := newFileStores(t)
	users := NewUserStore(b, BcryptCredentials{Cost: 4})
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := users.Register("bob", "pw123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "user.txt"))
	if string(data) == "admin;password\nbob;pw123" {
		t.Fatal("passwords were stored in plain text")
	}
	if !users.Authenticate("bob", "pw123") || !users.Authenticate("admin", "password") {
		t.Error("hashed credentials should authenticate")
	}
	if users.Authenticate("bob", "wrong") {
		t.Error("wrong password authenticated")
	}
}

func TestUserStoreLoadMalformed(t *testing.T) {
	b, dir := newFileStores(t)
	if err := os.WriteFile(filepath.Join(dir, "user.txt"), []byte("admin;password\nbroken"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewUserStore(b, nil).Load(); err == nil {
		t.Fatal("expected malformed users file to fail the load")
	}
}

func TestNewCredentials(t *testing.T) {
	for _, policy := range []string{"", "plain", "bcrypt"} {
		if _, err := NewCredentials(policy); err != nil {
			t.Errorf("NewCredentials(%q): %v", policy, err)
		}
	}
	if _, err := NewCredentials("md5"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestUserStoreLoadRepeatedUsername(t *testing.T) {
	b, dir := newFileStores(t)
	path := filepath.Join(dir, "user.txt")
	if err := os.WriteFile(path, []byte("admin;password\nbob;old\nbob;new"), 0644); err != nil {
		t.Fatal(err)
	}
	users := NewUserStore(b, nil)
	if err := users.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !users.Authenticate("bob", "new") || users.Authenticate("bob", "old") {
		t.Error("the last record for bob should win")
	}
	if users.Count() != 2 {
		t.Errorf("Count = %d, want 2", users.Count())
	}
	if err := users.Register("carol", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "admin;password\nbob;new\ncarol;pw" {
		t.Errorf("users file = %q", data)
	}
}
