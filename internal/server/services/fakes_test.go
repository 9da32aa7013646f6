package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/dbx"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/configs"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byLogin   map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byLogin[u.Login]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	f.byLogin[u.Login] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByLogin(_ context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeConfigsRepo struct {
	byUser  map[uuid.UUID]*models.Config
	initErr error
	getErr  error
	setErr  error
}

func (f *fakeConfigsRepo) Init(_ context.Context, userID uuid.UUID) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.byUser[userID] = &models.Config{UserID: userID, Ascending: true, ShowCreatedAt: true}
	return nil
}

func (f *fakeConfigsRepo) Get(_ context.Context, userID uuid.UUID) (*models.Config, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConfigsRepo) SetFlag(_ context.Context, userID uuid.UUID, flag string, value bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	c, ok := f.byUser[userID]
	if !ok {
		return common.ErrorNotFound
	}
	switch flag {
	case "ascending":
		c.Ascending = value
	case "created_at":
		c.ShowCreatedAt = value
	case "edited_at":
		c.ShowEditedAt = value
	case "owned_by":
		c.ShowOwner = value
	case "edited_by":
		c.ShowEditor = value
	case "filtered":
		c.Filtered = value
	}
	return nil
}

func (f *fakeConfigsRepo) SetSorted(_ context.Context, userID uuid.UUID, field *string) error {
	if f.setErr != nil {
		return f.setErr
	}
	c, ok := f.byUser[userID]
	if !ok {
		return common.ErrorNotFound
	}
	c.SortField = field
	return nil
}

type fakeFilesRepo struct {
	byID      map[uuid.UUID]*models.File
	createErr error
	listErr   error
	lastOpts  files.ListOptions
}

func (f *fakeFilesRepo) Create(_ context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, other := range f.byID {
		if other.OwnedBy == file.OwnedBy && sameParent(other.ParentID, file.ParentID) && other.Name == file.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	file.ID = uuid.New()
	file.CreatedAt = time.Now()
	f.byID[file.ID] = file
	return file, nil
}

func (f *fakeFilesRepo) GetByID(_ context.Context, owner, id uuid.UUID) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok || file.OwnedBy != owner {
		return nil, common.ErrorNotFound
	}
	return file, nil
}

func (f *fakeFilesRepo) FolderByName(_ context.Context, owner uuid.UUID, parent *uuid.UUID, name string) (*models.File, error) {
	for _, file := range f.byID {
		if file.OwnedBy == owner && sameParent(file.ParentID, parent) && file.Name == name && file.IsFolder() {
			return file, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) ListChildren(_ context.Context, owner uuid.UUID, parent *uuid.UUID, opts files.ListOptions) ([]models.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastOpts = opts
	out := []models.File{}
	for _, file := range f.byID {
		if file.OwnedBy == owner && sameParent(file.ParentID, parent) {
			out = append(out, *file)
		}
	}
	return out, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeConfigsRepo
	f *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{byLogin: map[string]*models.User{}},
		c: &fakeConfigsRepo{byUser: map[uuid.UUID]*models.Config{}},
		f: &fakeFilesRepo{byID: map[uuid.UUID]*models.File{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Configs(dbx.DBTX) configs.Repository          { return m.c }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository              { return m.f }

type fakeBlobs struct {
	objects   map[string][]byte
	putErr    error
	getErr    error
	deleteErr error
	deleted   []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (b *fakeBlobs) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if b.putErr != nil {
		return b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBlobs) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	data, ok := b.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	b.deleted = append(b.deleted, key)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.objects, key)
	return nil
}
