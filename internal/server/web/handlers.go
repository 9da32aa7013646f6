package web

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/services"
	"github.com/google/uuid"
)

type UserService interface {
	Register(ctx context.Context, login, password string) error
	Login(ctx context.Context, login, password string) (string, error)
}

type ConfigService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Config, error)
	SetFlag(ctx context.Context, userID uuid.UUID, name string, value bool) error
	SetSorted(ctx context.Context, userID uuid.UUID, field *string) error
}

type FileService interface {
	ListFolder(ctx context.Context, owner, id uuid.UUID) ([]models.File, error)
	ListPath(ctx context.Context, owner uuid.UUID, path string) ([]models.File, error)
	CreateFolder(ctx context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.File, error)
	Upload(ctx context.Context, owner uuid.UUID, u services.Upload) (*models.File, error)
	Download(ctx context.Context, owner, id uuid.UUID) (*models.File, io.ReadCloser, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers holds the route handlers and their dependencies.
type Handlers struct {
	Users   UserService
	Configs ConfigService
	Files   FileService
	DB      Pinger
	Logger  logging.Logger
}

// multipartMemory is how much of an upload is kept in memory before the
// rest spills to a temporary file.
const multipartMemory = 32 << 20

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type configUpdate struct {
	Field *string `json:"field"`
	Value *bool   `json:"value"`
}

type sortUpdate struct {
	Sorted *string `json:"sorted"`
}

type folderRequest struct {
	Name   string     `json:"name"`
	Parent *uuid.UUID `json:"parent"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			h.Logger.Warn(r.Context(), "health check failed", "error", err)
			writeText(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeText(w, http.StatusOK, "OK")
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	err := h.Users.Register(r.Context(), in.Login, in.Password)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeText(w, http.StatusConflict, "login already taken")
	default:
		writeError(w, err)
	}
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.Users.Login(r.Context(), in.Login, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	c, err := h.Configs.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var in configUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Field == nil || in.Value == nil {
		writeText(w, http.StatusBadRequest, "field and value are required")
		return
	}

	if err := h.Configs.SetFlag(r.Context(), userID, *in.Field, *in.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UpdateSort(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var in sortUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Configs.SetSorted(r.Context(), userID, in.Sorted); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) FolderByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeText(w, http.StatusNotFound, "not found")
		return
	}

	children, err := h.Files.ListFolder(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *Handlers) FolderByPath(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	children, err := h.Files.ListPath(r.Context(), userID, r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var in folderRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	f, err := h.Files.CreateFolder(r.Context(), userID, in.Name, in.Parent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Upload expects the parts file, destination and file_name. destination is
// a folder id or empty for the root.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, err)
			return
		}
		writeText(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeText(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	dest, err := parseDestination(r.FormValue("destination"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid destination")
		return
	}

	name := r.FormValue("file_name")
	if name == "" {
		name = header.Filename
	}

	f, err := h.Files.Upload(r.Context(), userID, services.Upload{
		Name:        name,
		Destination: dest,
		Body:        file,
		Size:        header.Size,
		ContentType: partContentType(header),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeText(w, http.StatusNotFound, "not found")
		return
	}

	f, rc, err := h.Files.Download(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mimeAttachment(f.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warn(r.Context(), "download interrupted", "id", id, "error", err)
	}
}

func parseDestination(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func partContentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func mimeAttachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
