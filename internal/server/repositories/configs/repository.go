// Package configs persists per-user display preferences.
package configs

import (
	"context"

	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Init(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*models.Config, error)
	SetFlag(ctx context.Context, userID uuid.UUID, flag string, value bool) error
	SetSorted(ctx context.Context, userID uuid.UUID, field *string) error
}
