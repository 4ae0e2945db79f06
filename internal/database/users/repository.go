// Package users provides database operations for watchlist owners.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	all, err := repo.ListUsers(ctx)
package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/watchlist/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUsers returns every user ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	users := []entities.User{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: list users: %w", entities.ErrPersistence, err)
	}
	return users, nil
}

// GetUserByID retrieves a user by ID. Returns entities.ErrNotFound if absent.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %w", entities.ErrPersistence, err)
	}
	return &user, nil
}
