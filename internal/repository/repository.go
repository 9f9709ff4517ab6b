package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/lxlismy7-source/springboot-assigment/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database. The unique constraint on
// username is the single authority for duplicates: a concurrent signup race
// surfaces as models.ErrUsernameTaken here, never as a silent double insert.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, full_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.FullName, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserExistsByUsername reports whether a user with the given username exists.
func (r *Repository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user '%s' exists: %w", username, err)
	}
	return exists, nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, full_name, password_hash, created_at
		FROM users
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateNote creates a new note in the database
func (r *Repository) CreateNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Description).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// FindNoteByIDAndUserID retrieves a note only if it is owned by the given
// user. A note owned by someone else is indistinguishable from a missing one.
func (r *Repository) FindNoteByIDAndUserID(ctx context.Context, id, userID int64) (*models.Note, error) {
	note := &models.Note{}
	query := `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM notes
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&note.ID, &note.UserID, &note.Title, &note.Description, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note %d for user %d: %w", id, userID, err)
	}
	return note, nil
}

// DeleteNoteByIDAndUserID permanently removes a note owned by the given user.
func (r *Repository) DeleteNoteByIDAndUserID(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note %d for user %d: %w", id, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

// ListNotesByUserID returns one page of the user's notes.
func (r *Repository) ListNotesByUserID(ctx context.Context, userID int64, params models.ListParams) ([]models.Note, error) {
	query, args, err := buildListQuery(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, params.Size)
	for rows.Next() {
		var note models.Note
		if err = rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Description, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// CountNotesByUserID returns the total number of notes owned by the user.
func (r *Repository) CountNotesByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notes WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes for user %d: %w", userID, err)
	}
	return count, nil
}

func buildListQuery(userID int64, params models.ListParams) (string, []interface{}, error) {
	direction := "DESC"
	if params.SortAscending {
		direction = "ASC"
	}

	return squirrel.
		Select("id",
			"user_id",
			"title",
			"description",
			"created_at",
			"updated_at").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(fmt.Sprintf("%s %s", params.SortField, direction)).
		Limit(uint64(params.Size)).
		Offset(uint64(params.Page * params.Size)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
