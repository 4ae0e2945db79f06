package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Search
		Audit
		Backup
		Tasks
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path      string
		SeedUsers []string // Placeholder users created when the users table is empty
	}
	Search struct {
		Provider      string // "tvmaze" or "omdb"
		TVMazeBaseURL string
		OMDbBaseURL   string
		OMDbAPIKey    string
		Timeout       time.Duration
		RetryAttempts uint
	}
	Audit struct {
		Dir             string
		RetentionDays   int    // Days to keep import audit files (default: 30)
		CleanupSchedule string // Cron format, empty disables cleanup
	}
	Backup struct {
		Dir      string
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Keep     int    // Number of backup files to retain, 0 keeps all
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Log struct {
		File       string // Empty logs to stdout only
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
)

// parseList splits a comma separated value, dropping blank items.
func parseList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("seed_users", DefaultSeedUsers)

	// Search provider defaults
	v.SetDefault("search_provider", "tvmaze")
	v.SetDefault("tvmaze_base_url", "https://api.tvmaze.com")
	v.SetDefault("omdb_base_url", "https://www.omdbapi.com")
	v.SetDefault("omdb_api_key", "")
	v.SetDefault("search_timeout", "10s")
	v.SetDefault("search_retry_attempts", 2)

	// Audit and backup defaults
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 4 * * *") // Daily at 04:00
	v.SetDefault("backup_dir", "./backups")
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_keep", 7)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Log rotation defaults
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)
	v.SetDefault("log_compress", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:      v.GetString("DATABASE_PATH"),
			SeedUsers: parseList(v.GetString("SEED_USERS")),
		},
		Search: Search{
			Provider:      v.GetString("SEARCH_PROVIDER"),
			TVMazeBaseURL: v.GetString("TVMAZE_BASE_URL"),
			OMDbBaseURL:   v.GetString("OMDB_BASE_URL"),
			OMDbAPIKey:    v.GetString("OMDB_API_KEY"),
			Timeout:       v.GetDuration("SEARCH_TIMEOUT"),
			RetryAttempts: v.GetUint("SEARCH_RETRY_ATTEMPTS"),
		},
		Audit: Audit{
			Dir:             v.GetString("AUDIT_DIR"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Backup: Backup{
			Dir:      v.GetString("BACKUP_DIR"),
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Log: Log{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
	}
}
