package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/protodrive/internal/server/storage"
	"github.com/google/uuid"
)

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStorage
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStorage, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger.With("module", "files"),
		now:         time.Now,
	}
}

// Upload describes one incoming file.
type Upload struct {
	Name        string
	Destination *uuid.UUID
	Body        io.Reader
	Size        int64
	ContentType string
}

// storageKey returns a fresh object key under the owner's prefix.
func (s *FileService) storageKey(owner uuid.UUID) string {
	d := s.now().UTC()
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%s", owner, d.Year(), d.Month(), d.Day(), uuid.New())
}

// ListFolder returns the children of the folder id. Ids that are unknown,
// belong to someone else or name a file yield common.ErrorNotFound.
func (s *FileService) ListFolder(ctx context.Context, owner, id uuid.UUID) ([]models.File, error) {
	if err := s.requireFolder(ctx, owner, &id); err != nil {
		return nil, err
	}
	return s.list(ctx, owner, &id)
}

// ListPath resolves a slash-separated folder path from the root and lists
// it. Empty segments are ignored, so "" and "/" both list the root.
func (s *FileService) ListPath(ctx context.Context, owner uuid.UUID, path string) ([]models.File, error) {
	repo := s.repomanager.Files(s.db)

	var parent *uuid.UUID
	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		folder, err := repo.FolderByName(ctx, owner, parent, name)
		if err != nil {
			return nil, hide(ctx, s.logger, "resolve path", err)
		}
		parent = &folder.ID
	}
	return s.list(ctx, owner, parent)
}

func (s *FileService) CreateFolder(ctx context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.requireFolder(ctx, owner, parent); err != nil {
		return nil, err
	}

	f, err := s.repomanager.Files(s.db).Create(ctx, &models.File{Name: name, ParentID: parent, OwnedBy: owner})
	if err != nil {
		return nil, hide(ctx, s.logger, "create folder", err)
	}
	return f, nil
}

// Upload stores the content and records it in the destination folder.
func (s *FileService) Upload(ctx context.Context, owner uuid.UUID, u Upload) (*models.File, error) {
	if err := validateName(u.Name); err != nil {
		return nil, err
	}
	if err := s.requireFolder(ctx, owner, u.Destination); err != nil {
		return nil, err
	}

	key := s.storageKey(owner)
	if err := s.blobs.Put(ctx, key, u.Body, u.Size, u.ContentType); err != nil {
		return nil, hide(ctx, s.logger, "store content", err)
	}

	f, err := s.repomanager.Files(s.db).Create(ctx, &models.File{
		Name:     u.Name,
		ParentID: u.Destination,
		Path:     &key,
		OwnedBy:  owner,
	})
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Warn(ctx, "orphaned object not removed", "key", key, "error", derr)
		}
		return nil, hide(ctx, s.logger, "record upload", err)
	}
	s.logger.Info(ctx, "file uploaded", "id", f.ID, "size", u.Size)
	return f, nil
}

// Download opens the content of the file id. Folders have no content and
// yield common.ErrorNotFound.
func (s *FileService) Download(ctx context.Context, owner, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	f, err := s.repomanager.Files(s.db).GetByID(ctx, owner, id)
	if err != nil {
		return nil, nil, hide(ctx, s.logger, "lookup file", err)
	}
	if f.IsFolder() {
		return nil, nil, common.ErrorNotFound
	}

	rc, err := s.blobs.Get(ctx, *f.Path)
	if err != nil {
		return nil, nil, hide(ctx, s.logger, "open content", err)
	}
	return f, rc, nil
}

// requireFolder checks that id, when set, is a folder owned by owner.
func (s *FileService) requireFolder(ctx context.Context, owner uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	f, err := s.repomanager.Files(s.db).GetByID(ctx, owner, *id)
	if err != nil {
		return hide(ctx, s.logger, "lookup folder", err)
	}
	if !f.IsFolder() {
		return common.ErrorNotFound
	}
	return nil
}

func (s *FileService) list(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.File, error) {
	opts := files.ListOptions{Ascending: true}
	cfg, err := s.repomanager.Configs(s.db).Get(ctx, owner)
	switch {
	case err == nil:
		opts = files.ListOptions{SortField: cfg.SortField, Ascending: cfg.Ascending}
	case errors.Is(err, common.ErrorNotFound):
	default:
		return nil, hide(ctx, s.logger, "load config", err)
	}

	children, err := s.repomanager.Files(s.db).ListChildren(ctx, owner, parent, opts)
	if err != nil {
		return nil, hide(ctx, s.logger, "list folder", err)
	}
	return children, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid name %q", common.ErrorValidation, name)
	}
	return nil
}
