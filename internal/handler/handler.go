package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lxlismy7-source/springboot-assigment/internal/middleware"
	"github.com/lxlismy7-source/springboot-assigment/internal/models"
)

// AuthService and NoteService abstract the business logic so handlers can be
// unit-tested without a real database.
type AuthService interface {
	Signup(ctx context.Context, username, password, fullName string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type NoteService interface {
	Create(ctx context.Context, subject, title, description string) (*models.Note, error)
	List(ctx context.Context, subject string, params models.ListParams) (*models.NotePage, error)
	Get(ctx context.Context, subject string, id int64) (*models.Note, error)
	Delete(ctx context.Context, subject string, id int64) error
}

type Handler struct {
	auth  AuthService
	notes NoteService
	log   *logrus.Logger
}

func NewHandler(auth AuthService, notes NoteService, log *logrus.Logger) *Handler {
	return &Handler{auth: auth, notes: notes, log: log}
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if _, err := h.auth.Signup(r.Context(), req.Username, req.Password, req.FullName); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	tokenString, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

// CreateNote handles note creation for the authenticated caller
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	note, err := h.notes.Create(r.Context(), subject, req.Title, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// ListNotes returns one page of the caller's notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	page, err := h.notes.List(r.Context(), subject, listParamsFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetNote returns a single note owned by the caller
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	note, err := h.notes.Get(r.Context(), subject, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote removes a note owned by the caller
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.notes.Delete(r.Context(), subject, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listParamsFromQuery parses page, size and sort query parameters. sort takes
// "field" or "field,asc|desc"; unparseable values fall back to defaults.
func listParamsFromQuery(r *http.Request) models.ListParams {
	var params models.ListParams

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
		params.Size = v
	}

	if sort := r.URL.Query().Get("sort"); sort != "" {
		field, direction, _ := strings.Cut(sort, ",")
		params.SortField = strings.TrimSpace(field)
		params.SortAscending = strings.EqualFold(strings.TrimSpace(direction), "asc")
	}

	return params
}

// writeError translates domain errors into HTTP responses. Internals are
// never leaked to the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, validationErr.Fields)
	case errors.Is(err, models.ErrUsernameTaken):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
	case errors.Is(err, models.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username/password"})
	case errors.Is(err, models.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
	case errors.Is(err, models.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
	default:
		h.log.Errorf("Unhandled error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
