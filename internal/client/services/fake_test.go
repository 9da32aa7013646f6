package services

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/protodrive/internal/client/models"
	"github.com/google/uuid"
)

// fakeClient implements client.Client and records what it was asked.
type fakeClient struct {
	mu sync.Mutex

	RegisterErr error
	LoginErr    error
	PingErr     error
	FolderErr   error
	ConfigErr   error
	UpdateErr   error
	UploadErr   error
	DownloadErr error

	FolderRet   []models.File
	ConfigRet   *models.Config
	CreateRet   *models.File
	DownloadRet string

	authenticated bool

	LastRegisterLogin, LastRegisterPassword string
	LastLoginLogin, LastLoginPassword       string
	LastFolderID                            *uuid.UUID
	LastFolderPath                          *string
	LastCreateName                          string
	LastCreateParent                        *uuid.UUID
	LastUpdateField                         models.Field
	LastUpdateValue                         bool
	LastSort                                *string
	SortCalls                               int
	LastUploadName, LastUploadDest          string
	LastUploadBody                          string
	LastDownloadID                          uuid.UUID
	DownloadClosed                          bool
}

func (f *fakeClient) Register(ctx context.Context, login, password string) error {
	f.LastRegisterLogin, f.LastRegisterPassword = login, password
	return f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, login, password string) (string, error) {
	f.LastLoginLogin, f.LastLoginPassword = login, password
	if f.LoginErr != nil {
		f.authenticated = false
		return "", f.LoginErr
	}
	f.authenticated = true
	return "tok", nil
}

func (f *fakeClient) Logout()             { f.authenticated = false }
func (f *fakeClient) Authenticated() bool { return f.authenticated }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) FolderContents(ctx context.Context, id uuid.UUID) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFolderID = &id
	return f.FolderRet, f.FolderErr
}

func (f *fakeClient) FolderContentsByPath(ctx context.Context, path string) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFolderPath = &path
	return f.FolderRet, f.FolderErr
}

func (f *fakeClient) CreateFolder(ctx context.Context, name string, parent *uuid.UUID) (*models.File, error) {
	f.LastCreateName, f.LastCreateParent = name, parent
	return f.CreateRet, nil
}

func (f *fakeClient) Config(ctx context.Context) (*models.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ConfigRet, f.ConfigErr
}

func (f *fakeClient) UpdateConfig(ctx context.Context, field models.Field, value bool) error {
	f.LastUpdateField, f.LastUpdateValue = field, value
	return f.UpdateErr
}

func (f *fakeClient) SetSortField(ctx context.Context, field *string) error {
	f.SortCalls++
	f.LastSort = field
	return f.UpdateErr
}

func (f *fakeClient) Upload(ctx context.Context, content io.Reader, name, destination string) error {
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.LastUploadName, f.LastUploadDest, f.LastUploadBody = name, destination, string(b)
	return f.UploadErr
}

func (f *fakeClient) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	f.LastDownloadID = id
	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	return &closeRecorder{Reader: strings.NewReader(f.DownloadRet), closed: &f.DownloadClosed}, nil
}

type closeRecorder struct {
	io.Reader
	closed *bool
}

func (c *closeRecorder) Close() error {
	*c.closed = true
	return nil
}
