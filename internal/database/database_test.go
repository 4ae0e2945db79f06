package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/watchlist/internal/entities"
)

func setupTestDB(t *testing.T, opts ...Option) (*Database, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath, append([]Option{WithLogLevel(logger.Silent)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

func listUserNames(t *testing.T, db *Database) []string {
	t.Helper()
	var users []entities.User
	require.NoError(t, db.DB.Order("id ASC").Find(&users).Error)
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}

func TestDatabaseInitialization(t *testing.T) {
	t.Run("NewDatabase creates database file", func(t *testing.T) {
		_, dbPath := setupTestDB(t)

		_, err := os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("NewDatabase seeds default users", func(t *testing.T) {
		db, _ := setupTestDB(t)

		assert.Equal(t, DefaultSeedUsers, listUserNames(t, db))
	})

	t.Run("custom seed users skip blanks", func(t *testing.T) {
		db, _ := setupTestDB(t, WithSeedUsers([]string{"Ann", "  ", " Bob "}))

		assert.Equal(t, []string{"Ann", "Bob"}, listUserNames(t, db))
	})

	t.Run("empty seed list disables seeding", func(t *testing.T) {
		db, _ := setupTestDB(t, WithSeedUsers(nil))

		assert.Empty(t, listUserNames(t, db))
	})

	t.Run("seeding is idempotent", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "reopen.db")

		db1, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		require.NoError(t, db1.Close())

		db2, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db2.Close()

		assert.Len(t, listUserNames(t, db2), len(DefaultSeedUsers))
	})

	t.Run("users are not reseeded once present", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "kept.db")

		db1, err := NewDatabase(dbPath, WithLogLevel(logger.Silent), WithSeedUsers([]string{"Only"}))
		require.NoError(t, err)
		require.NoError(t, db1.Close())

		db2, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db2.Close()

		assert.Equal(t, []string{"Only"}, listUserNames(t, db2))
	})
}

func TestPing(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	assert.NoError(t, db.Ping(ctx))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_busy_timeout=5000", dsn("app.db"))
	assert.Equal(t, "app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000", dsn("app.db?cache=shared"))
}

func TestConstraintErrors(t *testing.T) {
	db, _ := setupTestDB(t, WithSeedUsers([]string{"Ann"}))

	movie := entities.Movie{UserID: 1, ExternalID: "tt1", Title: "Example", AddedAt: time.Now()}
	require.NoError(t, db.DB.Omit("User").Create(&movie).Error)

	t.Run("duplicate external id is a unique violation", func(t *testing.T) {
		dup := entities.Movie{UserID: 1, ExternalID: "tt1", Title: "Again", AddedAt: time.Now()}
		err := db.DB.Omit("User").Create(&dup).Error

		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
		assert.False(t, IsForeignKeyViolation(err))
	})

	t.Run("unknown user is a foreign key violation", func(t *testing.T) {
		orphan := entities.Movie{UserID: 42, ExternalID: "tt2", Title: "Orphan", AddedAt: time.Now()}
		err := db.DB.Omit("User").Create(&orphan).Error

		require.Error(t, err)
		assert.True(t, IsForeignKeyViolation(err))
		assert.False(t, IsUniqueViolation(err))
	})

	t.Run("unrelated errors match neither", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
		assert.False(t, IsForeignKeyViolation(errors.New("boom")))
		assert.False(t, IsUniqueViolation(nil))
	})
}
