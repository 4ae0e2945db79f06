// Package snapshot provides whole-dataset reads and replaces of the users
// and movies tables.
//
// # Usage
//
//	repo := snapshot.NewRepository(db)
//	snap, err := repo.Dump(ctx)
//	err = repo.Replace(ctx, snap)
package snapshot

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/watchlist/internal/entities"
)

// Repository handles snapshot database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Dump reads both tables inside one read transaction so the result is
// self-consistent: every movie's user is present in Users.
func (r *Repository) Dump(ctx context.Context) (*entities.Snapshot, error) {
	snap := &entities.Snapshot{
		Users:  []entities.User{},
		Movies: []entities.Movie{},
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&snap.Users).Error; err != nil {
			return fmt.Errorf("dump users: %w", err)
		}
		if err := tx.Order("id ASC").Find(&snap.Movies).Error; err != nil {
			return fmt.Errorf("dump movies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrPersistence, err)
	}

	return snap, nil
}

// Replace deletes every movie, then every user, then inserts the snapshot's
// users followed by its movies, all in a single transaction. Any failure
// rolls back the whole sequence, including the deletes.
func (r *Repository) Replace(ctx context.Context, snap *entities.Snapshot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.Movie{}).Error; err != nil {
			return fmt.Errorf("delete movies: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&entities.User{}).Error; err != nil {
			return fmt.Errorf("delete users: %w", err)
		}

		for i := range snap.Users {
			if err := tx.Create(&snap.Users[i]).Error; err != nil {
				return fmt.Errorf("insert user %d: %w", snap.Users[i].ID, err)
			}
		}
		for i := range snap.Movies {
			snap.Movies[i].AddedAt = snap.Movies[i].AddedAt.UTC()
			if err := tx.Omit(clause.Associations).Create(&snap.Movies[i]).Error; err != nil {
				return fmt.Errorf("insert movie %d (%s): %w", snap.Movies[i].ID, snap.Movies[i].ExternalID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: replace snapshot: %w", entities.ErrPersistence, err)
	}
	return nil
}
