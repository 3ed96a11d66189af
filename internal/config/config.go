package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	DataDir          string `mapstructure:"data_dir"`
	UsersFile        string `mapstructure:"users_file"`
	TasksFile        string `mapstructure:"tasks_file"`
	TaskOverviewFile string `mapstructure:"task_overview_file"`
	UserOverviewFile string `mapstructure:"user_overview_file"`
	Backend          string `mapstructure:"backend"`
	SQLitePath       string `mapstructure:"sqlite_path"`
	DatabaseURL      string `mapstructure:"database_url"`
	PasswordHashing  string `mapstructure:"password_hashing"`
	AtomicWrite      bool   `mapstructure:"atomic_write"`
	LogFile          string `mapstructure:"log_file"`
	LogLevel         string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("users_file", "user.txt")
	v.SetDefault("tasks_file", "tasks.txt")
	v.SetDefault("task_overview_file", "task_overview.txt")
	v.SetDefault("user_overview_file", "user_overview.txt")
	v.SetDefault("backend", BackendFile)
	v.SetDefault("sqlite_path", "taskmanager.db")
	v.SetDefault("database_url", "")
	v.SetDefault("password_hashing", "plain")
	v.SetDefault("atomic_write", false)
	v.SetDefault("log_file", "taskmanager.log")
	v.SetDefault("log_level", "info")
}

// LoadEnv loads a .env file from dir into the process environment.
// A missing file is not an error.
func LoadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads taskmanager.yaml from dir (optional) and TASKMANAGER_* env vars
// on top of the defaults. DB_URL is honoured for the postgres backend.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("taskmanager")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	} else {
		slog.Debug("config_file_loaded", "path", v.ConfigFileUsed())
	}

	v.SetEnvPrefix("TASKMANAGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "TASKMANAGER_DATABASE_URL", "DB_URL"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("backend postgres needs database_url (or DB_URL)")
		}
	default:
		return fmt.Errorf("unknown backend %q (expected file|sqlite|postgres)", c.Backend)
	}
	switch c.PasswordHashing {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unknown password_hashing %q (expected plain|bcrypt)", c.PasswordHashing)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Path resolves a configured file name under DataDir unless it is absolute.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
