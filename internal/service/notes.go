package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lxlismy7-source/springboot-assigment/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultSort     = "created_at"
)

// sortColumns whitelists exposed sort names against their columns.
var sortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// NoteStore is the persistence surface NoteService depends on.
type NoteStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateNote(ctx context.Context, note *models.Note) error
	FindNoteByIDAndUserID(ctx context.Context, id, userID int64) (*models.Note, error)
	DeleteNoteByIDAndUserID(ctx context.Context, id, userID int64) error
	ListNotesByUserID(ctx context.Context, userID int64, params models.ListParams) ([]models.Note, error)
	CountNotesByUserID(ctx context.Context, userID int64) (int64, error)
}

// NoteService handles note CRUD on behalf of the authenticated caller. Every
// operation takes the verified token subject explicitly and enforces
// ownership through owner-scoped store lookups.
type NoteService struct {
	store NoteStore
	log   *logrus.Logger
}

// NewNoteService initializes a new note service
func NewNoteService(store NoteStore, log *logrus.Logger) *NoteService {
	return &NoteService{store: store, log: log}
}

// Create persists a new note owned by the caller.
func (s *NoteService) Create(ctx context.Context, subject, title, description string) (*models.Note, error) {
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		return nil, models.NewValidationError("title", "Title is required")
	}

	note := &models.Note{
		UserID:      user.ID,
		Title:       title,
		Description: description,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	s.log.Infof("Note %d created by %s", note.ID, user.Username)
	return note, nil
}

// List returns one page of the caller's notes. Defaults: first page, size 10,
// newest first.
func (s *NoteService) List(ctx context.Context, subject string, params models.ListParams) (*models.NotePage, error) {
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}

	params = normalizeListParams(params)

	notes, err := s.store.ListNotesByUserID(ctx, user.ID, params)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountNotesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / params.Size
	if int(total)%params.Size != 0 {
		totalPages++
	}

	return &models.NotePage{
		Content:       notes,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// Get returns a single note owned by the caller.
func (s *NoteService) Get(ctx context.Context, subject string, id int64) (*models.Note, error) {
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.store.FindNoteByIDAndUserID(ctx, id, user.ID)
}

// Delete permanently removes a note owned by the caller.
func (s *NoteService) Delete(ctx context.Context, subject string, id int64) error {
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNoteByIDAndUserID(ctx, id, user.ID); err != nil {
		return err
	}
	s.log.Infof("Note %d deleted by %s", id, user.Username)
	return nil
}

func normalizeListParams(p models.ListParams) models.ListParams {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	if column, ok := sortColumns[p.SortField]; ok {
		p.SortField = column
	} else {
		p.SortField = defaultSort
		p.SortAscending = false
	}
	return p
}
