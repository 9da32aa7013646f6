package web

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/auth"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	mu       sync.Mutex
	password map[string]string
	ids      map[string]uuid.UUID
	err      error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{password: map[string]string{}, ids: map[string]uuid.UUID{}}
}

func (f *fakeUsers) Register(_ context.Context, login, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if login == "" || password == "" {
		return common.ErrorValidation
	}
	if _, ok := f.password[login]; ok {
		return common.ErrorAlreadyExists
	}
	f.password[login] = password
	f.ids[login] = uuid.New()
	return nil
}

func (f *fakeUsers) Login(_ context.Context, login, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.password[login]; !ok || pw != password {
		return "", common.ErrorUnauthorized
	}
	return auth.GenerateToken(f.ids[login], testSecret, time.Hour)
}

type fakeConfigs struct {
	mu      sync.Mutex
	byUser  map[uuid.UUID]*models.Config
	lastSet string
}

func newFakeConfigs() *fakeConfigs {
	return &fakeConfigs{byUser: map[uuid.UUID]*models.Config{}}
}

func (f *fakeConfigs) get(userID uuid.UUID) *models.Config {
	c, ok := f.byUser[userID]
	if !ok {
		c = &models.Config{UserID: userID, Ascending: true, ShowCreatedAt: true}
		f.byUser[userID] = c
	}
	return c
}

func (f *fakeConfigs) Get(_ context.Context, userID uuid.UUID) (*models.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.get(userID)
	return &cp, nil
}

func (f *fakeConfigs) SetFlag(_ context.Context, userID uuid.UUID, name string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.get(userID)
	f.lastSet = name
	switch name {
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
	default:
		return common.ErrorValidation
	}
	return nil
}

func (f *fakeConfigs) SetSorted(_ context.Context, userID uuid.UUID, field *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field != nil && !models.IsSortField(*field) {
		return common.ErrorValidation
	}
	f.get(userID).SortField = field
	return nil
}

type fakeFiles struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*models.File
	contents map[uuid.UUID][]byte
	lastUp   services.Upload
	err      error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{entries: map[uuid.UUID]*models.File{}, contents: map[uuid.UUID][]byte{}}
}

func (f *fakeFiles) children(owner uuid.UUID, parent *uuid.UUID) []models.File {
	out := []models.File{}
	for _, e := range f.entries {
		if e.OwnedBy != owner {
			continue
		}
		if (e.ParentID == nil) != (parent == nil) || (parent != nil && *e.ParentID != *parent) {
			continue
		}
		out = append(out, *e)
	}
	return out
}

func (f *fakeFiles) ListFolder(_ context.Context, owner, id uuid.UUID) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.entries[id]
	if !ok || e.OwnedBy != owner || !e.IsFolder() {
		return nil, common.ErrorNotFound
	}
	return f.children(owner, &id), nil
}

func (f *fakeFiles) ListPath(_ context.Context, owner uuid.UUID, path string) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == "" {
		return f.children(owner, nil), nil
	}
	for _, e := range f.entries {
		if e.OwnedBy == owner && e.ParentID == nil && e.Name == path && e.IsFolder() {
			return f.children(owner, &e.ID), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFiles) CreateFolder(_ context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "" {
		return nil, common.ErrorValidation
	}
	if parent != nil {
		if p, ok := f.entries[*parent]; !ok || p.OwnedBy != owner {
			return nil, common.ErrorNotFound
		}
	}
	e := &models.File{ID: uuid.New(), ParentID: parent, Name: name, OwnedBy: owner, CreatedAt: time.Now().UTC()}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeFiles) Upload(_ context.Context, owner uuid.UUID, u services.Upload) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return nil, err
	}
	key := "k/" + u.Name
	e := &models.File{ID: uuid.New(), ParentID: u.Destination, Name: u.Name, Path: &key, OwnedBy: owner, CreatedAt: time.Now().UTC()}
	f.entries[e.ID] = e
	f.contents[e.ID] = data
	f.lastUp = u
	return e, nil
}

func (f *fakeFiles) Download(_ context.Context, owner, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.OwnedBy != owner || e.IsFolder() {
		return nil, nil, common.ErrorNotFound
	}
	return e, io.NopCloser(bytes.NewReader(f.contents[id])), nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	*httptest.Server
	users   *fakeUsers
	configs *fakeConfigs
	files   *fakeFiles
	db      *fakePinger
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	ts := &testServer{users: newFakeUsers(), configs: newFakeConfigs(), files: newFakeFiles(), db: &fakePinger{}}
	h := &Handlers{Users: ts.users, Configs: ts.configs, Files: ts.files, DB: ts.db, Logger: logging.Discard()}
	ts.Server = httptest.NewServer(NewRouter(h, testSecret, maxUpload, logging.Discard()))
	t.Cleanup(ts.Close)
	return ts
}

// tokenFor registers login and returns its bearer token and id.
func (ts *testServer) tokenFor(t *testing.T, login string) (string, uuid.UUID) {
	t.Helper()
	require.NoError(t, ts.users.Register(context.Background(), login, "pw"))
	tok, err := ts.users.Login(context.Background(), login, "pw")
	require.NoError(t, err)
	return tok, ts.users.ids[login]
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
