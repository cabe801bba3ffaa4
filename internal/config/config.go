package config

import (
	"time"

	"github.com/spf13/viper"
)

// RepositoryMode selects the active storage backend.
type RepositoryMode string

const (
	RepositoryModeMemory   RepositoryMode = "memory"
	RepositoryModeDatabase RepositoryMode = "database"
)

type (
	Config struct {
		HTTP
		Database
		Repository
		Auth
		Data
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path  string // SQLite file path (the connection string)
		Echo  bool   // Log every SQL statement
		Reset bool   // Drop and recreate all tables, then reload from the data dir
	}
	Repository struct {
		Mode RepositoryMode
	}
	Auth struct {
		BcryptCost      int
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Data struct {
		Dir      string // Directory holding items.csv and accounts.csv
		PageSize int    // Items per page on listing endpoints
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_path", "./catalog.db")
	v.SetDefault("database_echo", false)
	v.SetDefault("database_reset", false)
	v.SetDefault("repository_mode", "database")

	v.SetDefault("data_dir", "./data")
	v.SetDefault("page_size", 21)

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path:  v.GetString("DATABASE_PATH"),
			Echo:  v.GetBool("DATABASE_ECHO"),
			Reset: v.GetBool("DATABASE_RESET"),
		},
		Repository: Repository{
			Mode: RepositoryMode(v.GetString("REPOSITORY_MODE")),
		},
		Auth: Auth{
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Data: Data{
			Dir:      v.GetString("DATA_DIR"),
			PageSize: v.GetInt("PAGE_SIZE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
