package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/watchlist/internal/entities"
)

// DefaultSeedUsers are the placeholder identities created on first boot.
var DefaultSeedUsers = []string{"Person 1", "Person 2", "Person 3"}

type Database struct {
	DB *gorm.DB
}

type options struct {
	seedUsers []string
	logLevel  logger.LogLevel
}

// Option customizes NewDatabase.
type Option func(*options)

// WithSeedUsers overrides the names used to seed an empty users table.
// An empty slice disables seeding.
func WithSeedUsers(names []string) Option {
	return func(o *options) {
		o.seedUsers = names
	}
}

// WithLogLevel sets the gorm logger level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{
		seedUsers: DefaultSeedUsers,
		logLevel:  logger.Warn,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger:         logger.Default.LogMode(o.logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Movie{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedUsers(o.seedUsers); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// dsn enables foreign key enforcement, which sqlite leaves off per connection by default.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedUsers(names []string) error {
	if len(names) == 0 {
		return nil
	}

	var count int64
	if err := d.DB.Model(&entities.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return d.DB.Transaction(func(tx *gorm.DB) error {
		created := 0
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := tx.Create(&entities.User{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", name, err)
			}
			created++
		}
		log.Printf("Seeded users table with %d users", created)
		return nil
	})
}
