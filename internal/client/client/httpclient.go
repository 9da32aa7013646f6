package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/client/models"
	"github.com/dmitrijs2005/protodrive/internal/client/session"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a JSON or error body is read into memory.
const maxBodySize = 8 << 20

var errEmptyBody = errors.New("empty body")

// HTTPClient talks to the storage service over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Store
	logger  logging.Logger
}

type options struct {
	transport http.RoundTripper
	timeout   time.Duration
	logger    logging.Logger
}

// Option configures NewHTTPClient.
type Option func(*options)

// WithTransport sets the transport the authenticating stage forwards to.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout bounds every request, body included. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger for request failures and session changes.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewHTTPClient builds a client for the service rooted at baseURL. The store
// is shared with the rest of the application: Login writes it, every request
// reads it.
func NewHTTPClient(baseURL string, store *session.Store, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}

	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &HTTPClient{
		baseURL: u,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: newAuthTransport(o.transport, store),
		},
		session: store,
		logger:  o.logger.With("module", "api_client"),
	}, nil
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken *string `json:"access_token"`
}

type configUpdate struct {
	Field string `json:"field"`
	Value bool   `json:"value"`
}

type sortUpdate struct {
	Sorted *string `json:"sorted"`
}

type folderRequest struct {
	Name   string     `json:"name"`
	Parent *uuid.UUID `json:"parent"`
}

// Register creates an account. It does not start a session.
func (c *HTTPClient) Register(ctx context.Context, login, password string) error {
	const op = "register"

	resp, err := c.sendJSON(ctx, op, http.MethodPost, "auth/register", credentials{Login: login, Password: password})
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return statusError(op, resp, ErrConflict)
	case !isSuccess(resp.StatusCode):
		return statusError(op, resp, ErrServer)
	}
	return nil
}

// Login exchanges credentials for a token and stores it in the session.
func (c *HTTPClient) Login(ctx context.Context, login, password string) (string, error) {
	const op = "login"

	resp, err := c.sendJSON(ctx, op, http.MethodPost, "auth/login", credentials{Login: login, Password: password})
	if err != nil {
		return "", err
	}
	defer drainClose(resp.Body)

	// The error bodies do not follow the token schema, so the status goes first.
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		c.session.Clear()
		c.logger.Info(ctx, "login rejected", "status", resp.StatusCode)
		return "", statusError(op, resp, ErrInvalidCredentials)
	case !isSuccess(resp.StatusCode):
		return "", statusError(op, resp, ErrServer)
	}

	out, err := decodeBody[tokenResponse](op, resp)
	if err != nil {
		return "", err
	}
	if out.AccessToken == nil || *out.AccessToken == "" {
		return "", malformed(op, resp.StatusCode, errors.New("access_token missing"))
	}

	c.session.Set(*out.AccessToken)
	c.logger.Info(ctx, "session started")
	return *out.AccessToken, nil
}

// Logout clears the session without contacting the server.
func (c *HTTPClient) Logout() {
	c.session.Clear()
	c.logger.Info(context.Background(), "session cleared")
}

// Authenticated reports whether a token is held.
func (c *HTTPClient) Authenticated() bool {
	return c.session.Authenticated()
}

// Ping checks that the service answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	const op = "ping"

	resp, err := c.send(ctx, op, http.MethodGet, c.endpoint("health", nil), nil, "")
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp, ErrUnavailable)
	}
	return nil
}

// FolderContents lists the folder with the given id.
func (c *HTTPClient) FolderContents(ctx context.Context, folderID uuid.UUID) ([]models.File, error) {
	const op = "folder contents"

	resp, err := c.send(ctx, op, http.MethodGet, c.endpoint("folder/"+folderID.String(), nil), nil, "")
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, statusError(op, resp, ErrNotFound)
	case !isSuccess(resp.StatusCode):
		return nil, statusError(op, resp, ErrServer)
	}
	return decodeFiles(op, resp)
}

// FolderContentsByPath lists a folder addressed by its slash-separated path.
// Unlike FolderContents it does not single out 404: a missing path is
// reported as ErrServer.
func (c *HTTPClient) FolderContentsByPath(ctx context.Context, path string) ([]models.File, error) {
	const op = "folder contents by path"

	resp, err := c.send(ctx, op, http.MethodGet, c.endpoint("folder", url.Values{"name": {path}}), nil, "")
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(op, resp, ErrServer)
	}
	return decodeFiles(op, resp)
}

// CreateFolder creates a folder under parent, or at the root when parent is nil.
func (c *HTTPClient) CreateFolder(ctx context.Context, name string, parent *uuid.UUID) (*models.File, error) {
	const op = "create folder"

	resp, err := c.sendJSON(ctx, op, http.MethodPost, "folder", folderRequest{Name: name, Parent: parent})
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, statusError(op, resp, ErrNotFound)
	case !isSuccess(resp.StatusCode):
		return nil, statusError(op, resp, ErrServer)
	}
	return decodeBody[models.File](op, resp)
}

// Config fetches the display preferences of the current user.
func (c *HTTPClient) Config(ctx context.Context) (*models.Config, error) {
	const op = "get config"

	resp, err := c.send(ctx, op, http.MethodGet, c.endpoint("config", nil), nil, "")
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(op, resp, ErrServer)
	}
	return decodeBody[models.Config](op, resp)
}

// UpdateConfig sets one boolean preference.
func (c *HTTPClient) UpdateConfig(ctx context.Context, field models.Field, value bool) error {
	const op = "update config"

	// WireName panics for a field outside the closed set, before anything is sent.
	body := configUpdate{Field: field.WireName(), Value: value}

	resp, err := c.sendJSON(ctx, op, http.MethodPut, "config", body)
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return statusError(op, resp, ErrServer)
	}
	return nil
}

// SetSortField sets the listing order. A nil field disables sorting.
func (c *HTTPClient) SetSortField(ctx context.Context, field *string) error {
	const op = "set sort field"

	resp, err := c.sendJSON(ctx, op, http.MethodPut, "config/sort", sortUpdate{Sorted: field})
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return statusError(op, resp, ErrServer)
	}
	return nil
}

// Upload streams a multipart body with the parts file, destination and
// file_name, in that order. content is read to the end whatever the outcome.
func (c *HTTPClient) Upload(ctx context.Context, content io.Reader, name, destination string) error {
	const op = "upload"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	written := make(chan error, 1)
	go func() {
		err := writeUploadForm(mw, content, name, destination)
		pw.CloseWithError(err)
		written <- err
	}()

	resp, err := c.send(ctx, op, http.MethodPost, c.endpoint("upload", nil), pr, contentType)
	// Unblocks the writer if the transport stopped reading early.
	_ = pr.Close()
	writeErr := <-written
	_, _ = io.Copy(io.Discard, content)

	if writeErr != nil && !errors.Is(writeErr, io.ErrClosedPipe) {
		if resp != nil {
			drainClose(resp.Body)
		}
		return fmt.Errorf("%s: read content: %w", op, writeErr)
	}
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return statusError(op, resp, ErrServer)
	}
	c.logger.Debug(ctx, "file uploaded", "name", name, "destination", destination)
	return nil
}

// Download returns the file content. The caller closes it.
func (c *HTTPClient) Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, error) {
	const op = "download"

	resp, err := c.send(ctx, op, http.MethodGet, c.endpoint("download/"+fileID.String(), nil), nil, "")
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		defer drainClose(resp.Body)
		return nil, statusError(op, resp, ErrNotFound)
	case !isSuccess(resp.StatusCode):
		defer drainClose(resp.Body)
		return nil, statusError(op, resp, ErrServer)
	}
	return resp.Body, nil
}

func writeUploadForm(mw *multipart.Writer, content io.Reader, name, destination string) error {
	// CreateFormFile tags the part as application/octet-stream.
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	if err := mw.WriteField("destination", destination); err != nil {
		return err
	}
	if err := mw.WriteField("file_name", name); err != nil {
		return err
	}
	return mw.Close()
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *HTTPClient) sendJSON(ctx context.Context, op, method, path string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.send(ctx, op, method, c.endpoint(path, nil), bytes.NewReader(b), "application/json")
}

func (c *HTTPClient) send(ctx context.Context, op, method, target string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return resp, nil
}

func decodeFiles(op string, resp *http.Response) ([]models.File, error) {
	files, err := decodeBody[[]models.File](op, resp)
	if err != nil {
		return nil, err
	}
	for _, f := range *files {
		if err := f.Validate(); err != nil {
			return nil, malformed(op, resp.StatusCode, fmt.Errorf("file %s: %w", f.ID, err))
		}
	}
	return *files, nil
}

// decodeBody reads a JSON document that must be present: an empty body or
// a literal null is as much a failure as a shape mismatch.
func decodeBody[T any](op string, resp *http.Response) (*T, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w: %w", op, ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed(op, resp.StatusCode, errEmptyBody)
	}

	var v *T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, malformed(op, resp.StatusCode, err)
	}
	if v == nil {
		return nil, malformed(op, resp.StatusCode, errEmptyBody)
	}
	return v, nil
}

func malformed(op string, status int, cause error) error {
	return &APIError{Op: op, StatusCode: status, Message: cause.Error(), Kind: ErrMalformedResponse}
}

func statusError(op string, resp *http.Response, kind error) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Message: string(b), Kind: kind}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodySize))
	_ = body.Close()
}
