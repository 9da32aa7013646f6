package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/protodrive/internal/client/client"
	"github.com/dmitrijs2005/protodrive/internal/client/models"
	"github.com/dmitrijs2005/protodrive/internal/filex"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidID        = errors.New("not a valid id")
	ErrInvalidSortField = errors.New("sort field must be one of name, created_at, edited_at, none")
	ErrEmptyName        = errors.New("name must not be empty")
)

// Listing is one folder's contents together with the display preferences
// they should be rendered with.
type Listing struct {
	Files  []models.File
	Config *models.Config
}

// DriveService covers folder browsing, file transfer and preferences.
//
// Folder targets are either a folder id or a slash-separated path from the
// root; an empty target is the root itself.
type DriveService interface {
	List(ctx context.Context, target string) (*Listing, error)
	MakeDir(ctx context.Context, name, parent string) (*models.File, error)
	UploadFile(ctx context.Context, localPath, destination string) error
	DownloadFile(ctx context.Context, fileID, localPath string) (int64, error)
	Config(ctx context.Context) (*models.Config, error)
	SetOption(ctx context.Context, field models.Field, value bool) error
	SetSort(ctx context.Context, sort string) error
}

type driveService struct {
	client client.Client
}

func NewDriveService(c client.Client) DriveService {
	return &driveService{client: c}
}

// List fetches the folder and the caller's config concurrently.
func (s *driveService) List(ctx context.Context, target string) (*Listing, error) {
	var out Listing

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := s.folder(gctx, target)
		out.Files = files
		return err
	})
	g.Go(func() error {
		cfg, err := s.client.Config(gctx)
		out.Config = cfg
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *driveService) folder(ctx context.Context, target string) ([]models.File, error) {
	target = strings.TrimSpace(target)
	if id, err := uuid.Parse(target); err == nil {
		return s.client.FolderContents(ctx, id)
	}
	return s.client.FolderContentsByPath(ctx, strings.Trim(target, "/"))
}

func (s *driveService) MakeDir(ctx context.Context, name, parent string) (*models.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	parentID, err := optionalID(parent)
	if err != nil {
		return nil, err
	}
	return s.client.CreateFolder(ctx, name, parentID)
}

// UploadFile sends the file at localPath into the destination folder (an id,
// or empty for the root) under its base name.
func (s *driveService) UploadFile(ctx context.Context, localPath, destination string) error {
	if _, err := optionalID(destination); err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", localPath)
	}

	return s.client.Upload(ctx, f, filepath.Base(localPath), strings.TrimSpace(destination))
}

// DownloadFile saves the content of fileID at localPath and returns the
// number of bytes written.
func (s *driveService) DownloadFile(ctx context.Context, fileID, localPath string) (int64, error) {
	id, err := uuid.Parse(strings.TrimSpace(fileID))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, fileID)
	}

	body, err := s.client.Download(ctx, id)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return filex.SaveStream(localPath, body)
}

func (s *driveService) Config(ctx context.Context) (*models.Config, error) {
	return s.client.Config(ctx)
}

func (s *driveService) SetOption(ctx context.Context, field models.Field, value bool) error {
	return s.client.UpdateConfig(ctx, field, value)
}

// SetSort accepts a sort key or "none" to clear sorting.
func (s *driveService) SetSort(ctx context.Context, sort string) error {
	switch sort = strings.TrimSpace(sort); sort {
	case "none", "":
		return s.client.SetSortField(ctx, nil)
	case models.SortByName, models.SortByCreatedAt, models.SortByEditedAt:
		return s.client.SetSortField(ctx, &sort)
	default:
		return ErrInvalidSortField
	}
}

func optionalID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return &id, nil
}
