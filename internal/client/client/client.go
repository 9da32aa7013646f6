package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/protodrive/internal/client/models"
	"github.com/google/uuid"
)

// Client is everything the front end may ask of the storage service.
// Calls are independent of each other and safe to run concurrently.
type Client interface {
	Register(ctx context.Context, login, password string) error
	// Login returns the bearer token and makes it the active session.
	Login(ctx context.Context, login, password string) (string, error)
	// Logout drops the active session. The server keeps no session state.
	Logout()
	Authenticated() bool
	Ping(ctx context.Context) error

	FolderContents(ctx context.Context, folderID uuid.UUID) ([]models.File, error)
	FolderContentsByPath(ctx context.Context, path string) ([]models.File, error)
	CreateFolder(ctx context.Context, name string, parent *uuid.UUID) (*models.File, error)

	Config(ctx context.Context) (*models.Config, error)
	UpdateConfig(ctx context.Context, field models.Field, value bool) error
	SetSortField(ctx context.Context, field *string) error

	// Upload reads content to the end but never closes it.
	Upload(ctx context.Context, content io.Reader, name, destination string) error
	// Download returns the file body; the caller must close it.
	Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, error)
}
