package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chetan-code/taskmanager/internal/models"
	"github.com/chetan-code/taskmanager/internal/record"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// SQLBackend stores users and tasks in a relational database. Rows are
// ordered by their surrogate id, and ids maps canonical task indexes to rows.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
	ids     []int64
}

// NewSQLBackend wraps an open database and creates the tables if needed.
// The drivers are registered by the caller (sqlite3 or pgx).
func NewSQLBackend(db *sql.DB, dialect Dialect) (*SQLBackend, error) {
	b := &SQLBackend{db: db, dialect: dialect}

	err := b.CreateTable()
	if err != nil {
		return nil, fmt.Errorf("could not initialize table: %w", err)
	}

	return b, nil
}

func (b *SQLBackend) CreateTable() error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if b.dialect == DialectPostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users(
		` + idColumn + `,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	);`,
		`CREATE TABLE IF NOT EXISTS tasks(
		` + idColumn + `,
		username TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TEXT NOT NULL,
		assigned_date TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	}
	for _, q := range queries {
		if _, err := b.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (b *SQLBackend) rebind(query string) string {
	if b.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// LoadUsers reports ErrNoStorage while the users table is empty.
func (b *SQLBackend) LoadUsers() ([]models.User, error) {
	rows, err := b.db.Query("SELECT username, password FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.Password); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoStorage
	}
	return users, nil
}

func (b *SQLBackend) InsertUser(u models.User, _ []models.User) error {
	_, err := b.db.Exec(b.rebind("INSERT INTO users (username, password) VALUES (?, ?)"), u.Username, u.Password)
	return err
}

func (b *SQLBackend) LoadTasks() ([]models.Task, error) {
	query := `SELECT id, username, title, description, due_date, assigned_date, completed
		FROM tasks ORDER BY id ASC`
	rows, err := b.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	var ids []int64
	for rows.Next() {
		var (
			id            int64
			t             models.Task
			due, assigned string
		)
		if err := rows.Scan(&id, &t.Username, &t.Title, &t.Description, &due, &assigned, &t.Completed); err != nil {
			return nil, err
		}
		if t.DueDate, err = record.ParseDate(due); err != nil {
			return nil, fmt.Errorf("task %d: bad due date %q: %w", id, due, err)
		}
		if t.AssignedDate, err = record.ParseDate(assigned); err != nil {
			return nil, fmt.Errorf("task %d: bad assigned date %q: %w", id, assigned, err)
		}
		tasks = append(tasks, t)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	b.ids = ids
	return tasks, nil
}

func (b *SQLBackend) InsertTask(t models.Task, _ []models.Task) error {
	query := b.rebind(`INSERT INTO tasks (username, title, description, due_date, assigned_date, completed)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	err := b.db.QueryRow(query,
		t.Username, t.Title, t.Description,
		record.FormatDate(t.DueDate), record.FormatDate(t.AssignedDate), t.Completed,
	).Scan(&id)
	if err != nil {
		return err
	}
	b.ids = append(b.ids, id)
	return nil
}

func (b *SQLBackend) UpdateTask(index int, t models.Task, _ []models.Task) error {
	if index < 0 || index >= len(b.ids) {
		return fmt.Errorf("task %d: %w", index, ErrIndexOutOfRange)
	}
	query := b.rebind(`UPDATE tasks SET username = ?, title = ?, description = ?,
		due_date = ?, assigned_date = ?, completed = ? WHERE id = ?`)
	res, err := b.db.Exec(query,
		t.Username, t.Title, t.Description,
		record.FormatDate(t.DueDate), record.FormatDate(t.AssignedDate), t.Completed,
		b.ids[index],
	)
	if err != nil {
		slog.Error("task_update_failed", "id", b.ids[index], "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task row %d vanished", b.ids[index])
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
