// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/protodrive/internal/server/models"
)

// Repository stores accounts keyed by a unique login.
type Repository interface {
	// Create fails with common.ErrorAlreadyExists when the login is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByLogin fails with common.ErrorNotFound for unknown logins.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}
