package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
	"github.com/healthpod/healthpod/internal/server/auth"
	"github.com/healthpod/healthpod/internal/server/models"
	"github.com/healthpod/healthpod/internal/server/services"
)

// UserService is the auth surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username string, salt, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// ResourceService is the storage surface the handlers need.
type ResourceService interface {
	Write(ctx context.Context, userID, path string, content []byte, encrypted bool) error
	Read(ctx context.Context, userID, path string) (*models.Resource, error)
	Delete(ctx context.Context, userID, path string) error
	List(ctx context.Context, userID, dir string) (*services.Listing, error)
}

// Handlers holds the HTTP handlers of the pod API.
type Handlers struct {
	users     UserService
	resources ResourceService
	logger    logging.Logger
}

func NewHandlers(users UserService, resources ResourceService, logger logging.Logger) *Handlers {
	return &Handlers{users: users, resources: resources, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Unknown errors answer
// 500 with a generic body; the detail stays in the server log.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: common.ErrNotFound.Error()})
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: common.ErrConflict.Error()})
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "url", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}

	if err := h.users.Register(r.Context(), req.Username, req.Salt, req.Verifier); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) getSalt(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username required"})
		return
	}

	salt, err := h.users.GetSalt(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saltResponse{Salt: salt})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}

	pair, err := h.users.Login(r.Context(), req.Username, req.Verifier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}

	pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: common.ErrUnauthorized.Error()})
	}
	return id, ok
}

func (h *Handlers) readResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	res, err := h.resources.Read(r.Context(), userID, r.URL.Query().Get("path"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resourceResponse{
		Path:      res.Path,
		Content:   res.Content,
		Encrypted: res.Encrypted,
		UpdatedAt: res.UpdatedAt,
	})
}

func (h *Handlers) writeResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req writeResourceRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}

	if err := h.resources.Write(r.Context(), userID, req.Path, req.Content, req.Encrypted); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.resources.Delete(r.Context(), userID, r.URL.Query().Get("path")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listContainer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listing, err := h.resources.List(r.Context(), userID, r.URL.Query().Get("path"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := containerResponse{Subdirs: listing.Subdirs}
	for _, f := range listing.Files {
		resp.Files = append(resp.Files, fileInfo{Name: f.Path, Size: f.Size, UpdatedAt: f.UpdatedAt})
	}

	writeJSON(w, http.StatusOK, resp)
}
