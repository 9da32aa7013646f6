package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, 1<<20)

	resp := ts.do(t, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", readBody(t, resp))

	ts.db.err = errors.New("conn refused")
	resp = ts.do(t, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t, 1<<20)

	resp := ts.do(t, http.MethodPost, "/auth/register", "", jsonBody(t, credentials{"alice", "pw"}), "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Empty(t, readBody(t, resp))

	resp = ts.do(t, http.MethodPost, "/auth/register", "", jsonBody(t, credentials{"alice", "pw2"}), "application/json")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "login already taken", readBody(t, resp))

	resp = ts.do(t, http.MethodPost, "/auth/register", "", jsonBody(t, credentials{"", "pw"}), "application/json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/auth/register", "", strings.NewReader("{"), "application/json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_InternalErrorHidesDetail(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	ts.users.err = errors.New("db error: password=hunter2")

	resp := ts.do(t, http.MethodPost, "/auth/register", "", jsonBody(t, credentials{"a", "b"}), "application/json")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotContains(t, readBody(t, resp), "hunter2")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	ts.tokenFor(t, "alice")

	resp := ts.do(t, http.MethodPost, "/auth/login", "", jsonBody(t, credentials{"alice", "pw"}), "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out["access_token"])

	resp = ts.do(t, http.MethodPost, "/auth/login", "", jsonBody(t, credentials{"alice", "nope"}), "application/json")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, 1<<20)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/config"},
		{http.MethodPut, "/config"},
		{http.MethodPut, "/config/sort"},
		{http.MethodGet, "/folder"},
		{http.MethodGet, "/folder/" + uuid.NewString()},
		{http.MethodPost, "/folder"},
		{http.MethodPost, "/upload"},
		{http.MethodGet, "/download/" + uuid.NewString()},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp := ts.do(t, p.method, p.path, "", nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp = ts.do(t, p.method, p.path, "garbage", nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestConfigRoutes(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, id := ts.tokenFor(t, "alice")

	resp := ts.do(t, http.MethodPut, "/config", tok, strings.NewReader(`{"field":"owned_by","value":true}`), "application/json")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/config/sort", tok, strings.NewReader(`{"sorted":"name"}`), "application/json")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/config", tok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c models.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	require.Equal(t, id, c.UserID)
	require.True(t, c.ShowOwner)
	require.Equal(t, "name", *c.SortField)

	resp = ts.do(t, http.MethodPut, "/config/sort", tok, strings.NewReader(`{"sorted":null}`), "application/json")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Nil(t, ts.configs.byUser[id].SortField)
}

func TestConfigRoutes_BadInput(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	tests := []struct {
		name, path, body string
	}{
		{"unknown field", "/config", `{"field":"size","value":true}`},
		{"missing value", "/config", `{"field":"ascending"}`},
		{"not json", "/config", `true`},
		{"unknown sort", "/config/sort", `{"sorted":"size"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPut, tt.path, tok, strings.NewReader(tt.body), "application/json")
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestFolderRoutes(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	resp := ts.do(t, http.MethodPost, "/folder", tok, strings.NewReader(`{"name":"docs","parent":null}`), "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var docs models.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	require.Equal(t, "docs", docs.Name)
	require.Nil(t, docs.Path)

	body := `{"name":"2024","parent":"` + docs.ID.String() + `"}`
	resp = ts.do(t, http.MethodPost, "/folder", tok, strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/folder/"+docs.ID.String(), tok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var children []models.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&children))
	require.Len(t, children, 1)
	require.Equal(t, "2024", children[0].Name)

	resp = ts.do(t, http.MethodGet, "/folder?name=docs", tok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/folder?name=", tok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&children))
	require.Len(t, children, 1)
}

func TestFolderRoutes_NotFound(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")
	other, _ := ts.tokenFor(t, "bob")

	resp := ts.do(t, http.MethodPost, "/folder", tok, strings.NewReader(`{"name":"docs"}`), "application/json")
	var docs models.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))

	for _, path := range []string{"/folder/" + uuid.NewString(), "/folder/not-a-uuid", "/folder?name=missing"} {
		resp = ts.do(t, http.MethodGet, path, tok, nil, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp = ts.do(t, http.MethodGet, "/folder/"+docs.ID.String(), other, nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFolderRoutes_ResponseIsEmptyArrayNotNull(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	resp := ts.do(t, http.MethodGet, "/folder?name=", tok, nil, "")
	require.Equal(t, "[]", strings.TrimSpace(readBody(t, resp)))
}

func multipartUpload(t *testing.T, content, destination, name string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("destination", destination))
	require.NoError(t, mw.WriteField("file_name", name))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAndDownload(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	body, ct := multipartUpload(t, "hello world", "", "greeting.txt")
	resp := ts.do(t, http.MethodPost, "/upload", tok, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var f models.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	require.Equal(t, "greeting.txt", f.Name)
	require.Nil(t, ts.files.lastUp.Destination)
	require.Equal(t, int64(11), ts.files.lastUp.Size)

	resp = ts.do(t, http.MethodGet, "/download/"+f.ID.String(), tok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "greeting.txt")
	require.Equal(t, "hello world", readBody(t, resp))
}

func TestUpload_IntoFolder(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")
	dest := uuid.New()

	body, ct := multipartUpload(t, "x", dest.String(), "a.txt")
	resp := ts.do(t, http.MethodPost, "/upload", tok, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, &dest, ts.files.lastUp.Destination)
}

func TestUpload_BadRequests(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	body, ct := multipartUpload(t, "x", "not-a-uuid", "a.txt")
	resp := ts.do(t, http.MethodPost, "/upload", tok, body, ct)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/upload", tok, strings.NewReader("plain"), "text/plain")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("file_name", "a.txt"))
	require.NoError(t, mw.Close())
	resp = ts.do(t, http.MethodPost, "/upload", tok, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "missing file part", readBody(t, resp))
}

func TestUpload_TooLarge(t *testing.T) {
	ts := newTestServer(t, 64)
	tok, _ := ts.tokenFor(t, "alice")

	body, ct := multipartUpload(t, strings.Repeat("x", 1024), "", "big.bin")
	resp := ts.do(t, http.MethodPost, "/upload", tok, body, ct)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUpload_ServiceError(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")
	ts.files.err = common.ErrorAlreadyExists

	body, ct := multipartUpload(t, "x", "", "a.txt")
	resp := ts.do(t, http.MethodPost, "/upload", tok, body, ct)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDownload_NotFound(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	tok, _ := ts.tokenFor(t, "alice")

	resp := ts.do(t, http.MethodPost, "/folder", tok, strings.NewReader(`{"name":"docs"}`), "application/json")
	var docs models.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))

	for _, id := range []string{uuid.NewString(), docs.ID.String(), "zzz"} {
		resp = ts.do(t, http.MethodGet, "/download/"+id, tok, nil, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode, id)
	}
}
