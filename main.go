package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chetan-code/taskmanager/internal/config"
	"github.com/chetan-code/taskmanager/internal/handler"
	"github.com/chetan-code/taskmanager/internal/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func loadEnvVar() {
	//load env variables, a missing .env is fine
	err := config.LoadEnv(".")
	if err != nil {
		slog.Error("environment_var_load_failure", "error", err)
		os.Exit(1)
	}
}

func initDB(driver, dsn string) *sql.DB {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		slog.Error("database_intialization_failed", "driver", driver, "error", err)
		os.Exit(1)
	}

	//check if connection is alive
	err = db.Ping()
	if err != nil {
		slog.Error("database_connection_ping_failed", "driver", driver, "error", err)
		os.Exit(1)
	}

	slog.Info("database_intialisation_success", "driver", driver)

	return db
}

func openBackend(cfg *config.Config) repository.Backend {
	switch cfg.Backend {
	case config.BackendSQLite:
		db := initDB(string(repository.DialectSQLite), cfg.Path(cfg.SQLitePath))
		b, err := repository.NewSQLBackend(db, repository.DialectSQLite)
		if err != nil {
			slog.Error("backend_creation_failed", "backend", cfg.Backend, "error", err)
			os.Exit(1)
		}
		return b
	case config.BackendPostgres:
		db := initDB(string(repository.DialectPostgres), cfg.DatabaseURL)
		b, err := repository.NewSQLBackend(db, repository.DialectPostgres)
		if err != nil {
			slog.Error("backend_creation_failed", "backend", cfg.Backend, "error", err)
			os.Exit(1)
		}
		return b
	default:
		b := repository.NewFileBackend(cfg.Path(cfg.UsersFile), cfg.Path(cfg.TasksFile))
		b.AtomicWrite = cfg.AtomicWrite
		return b
	}
}

// setupSlog sends JSON logs to the configured file so they stay out of the
// interactive console. The returned closer flushes that file.
func setupSlog(cfg *config.Config) io.Closer {
	level, _ := cfg.Level()

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "-" {
		path := cfg.Path(cfg.LogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintln(os.Stderr, "could not create log directory:", err)
			os.Exit(1)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not open log file:", err)
			os.Exit(1)
		}
		w, closer = f, f
	}

	//Json handler with source location
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	slog.SetDefault(slog.New(handler))
	return closer
}

func main() {
	loadEnvVar()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	//structure logging
	logFile := setupSlog(cfg)
	defer logFile.Close()

	credentials, err := repository.NewCredentials(cfg.PasswordHashing)
	if err != nil {
		slog.Error("credentials_setup_failed", "error", err)
		os.Exit(1)
	}

	backend := openBackend(cfg)
	defer backend.Close()

	users := repository.NewUserStore(backend, credentials)
	tasks := repository.NewTaskStore(backend)
	for _, load := range []func() error{users.Load, tasks.Load} {
		if err := load(); err != nil {
			slog.Error("store_load_failed", "backend", cfg.Backend, "error", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	tasks.CheckAssignees(users.Exists)

	session := &handler.Session{
		Users:   users,
		Tasks:   tasks,
		Console: handler.NewConsole(os.Stdin, os.Stdout),
		Reports: handler.ReportPaths{
			TaskOverview: cfg.Path(cfg.TaskOverviewFile),
			UserOverview: cfg.Path(cfg.UserOverviewFile),
		},
	}

	err = handler.Start(session)
	if err != nil && !errors.Is(err, handler.ErrInputClosed) {
		slog.Error("session_failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
	}
}
