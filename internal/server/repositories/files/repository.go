// Package files persists the folder tree and file metadata of each user.
package files

import (
	"context"

	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/google/uuid"
)

// ListOptions controls the ordering of ListChildren. A nil SortField orders
// by creation time.
type ListOptions struct {
	SortField *string
	Ascending bool
}

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, owner, id uuid.UUID) (*models.File, error)
	FolderByName(ctx context.Context, owner uuid.UUID, parent *uuid.UUID, name string) (*models.File, error)
	ListChildren(ctx context.Context, owner uuid.UUID, parent *uuid.UUID, opts ListOptions) ([]models.File, error)
}
