package repository

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chetan-code/taskmanager/internal/models"
	"github.com/chetan-code/taskmanager/internal/record"
)

// FileBackend keeps users and tasks in two line-oriented text files and
// rewrites the whole file after every change.
type FileBackend struct {
	usersPath   string
	tasksPath   string
	// AtomicWrite writes to a temp file next to the target and renames it
	// into place instead of truncating the target.
	AtomicWrite bool
}

func NewFileBackend(usersPath, tasksPath string) *FileBackend {
	return &FileBackend{usersPath: usersPath, tasksPath: tasksPath}
}

// LoadUsers reports ErrNoStorage for a missing or empty users file.
func (b *FileBackend) LoadUsers() ([]models.User, error) {
	var users []models.User
	err := readRecords(b.usersPath, func(line string) error {
		u, err := record.DecodeUser(line)
		if err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(users) == 0) {
		return nil, ErrNoStorage
	}
	return users, err
}

func (b *FileBackend) InsertUser(_ models.User, all []models.User) error {
	lines := make([]string, len(all))
	for i, u := range all {
		lines[i] = record.EncodeUser(u)
	}
	return b.write(b.usersPath, lines)
}

// LoadTasks reads the tasks file, creating it empty when missing.
func (b *FileBackend) LoadTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := readRecords(b.tasksPath, func(line string) error {
		t, err := record.DecodeTask(line)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, b.write(b.tasksPath, nil)
	}
	return tasks, err
}

func (b *FileBackend) InsertTask(_ models.Task, all []models.Task) error {
	return b.flushTasks(all)
}

func (b *FileBackend) UpdateTask(_ int, _ models.Task, all []models.Task) error {
	return b.flushTasks(all)
}

func (b *FileBackend) flushTasks(all []models.Task) error {
	lines := make([]string, len(all))
	for i, t := range all {
		lines[i] = record.EncodeTask(t)
	}
	return b.write(b.tasksPath, lines)
}

func (b *FileBackend) Close() error {
	return nil
}

// readRecords calls decode for every non-blank line of path. The first
// decode failure stops the read and is returned with its line number.
func readRecords(path string, decode func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := decode(line); err != nil {
			var fe *record.FormatError
			if errors.As(err, &fe) {
				fe.Line = n
			}
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return scanner.Err()
}

func (b *FileBackend) write(path string, lines []string) error {
	data := []byte(strings.Join(lines, "\n"))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	if !b.AtomicWrite {
		return os.WriteFile(path, data, 0644)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
