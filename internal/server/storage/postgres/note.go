package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
)

// ListNotes returns owner's notes ordered by creation time
func (s *Storage) ListNotes(ctx context.Context, ownerID string) ([]*models.Note, error) {
	query := `SELECT id, user_id, title, content, version, created_at, updated_at FROM notes
		WHERE user_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content,
			&note.Version, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notes, nil
}

// GetNote retrieves a single note of the owner
func (s *Storage) GetNote(ctx context.Context, ownerID, noteID string) (*models.Note, error) {
	query := `SELECT id, user_id, title, content, version, created_at, updated_at FROM notes
		WHERE id = $1 AND user_id = $2`

	note := &models.Note{}
	err := s.db.QueryRowContext(ctx, query, noteID, ownerID).Scan(&note.ID, &note.OwnerID,
		&note.Title, &note.Content, &note.Version, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// CreateNote stores a new note
func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query, note.ID, note.OwnerID, note.Title, note.Content,
		note.Version, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// UpdateNote performs compare-and-swap on version.
// RETURNING отдает новую версию; отсутствие строки означает либо чужую/удаленную заметку,
// либо устаревшую версию.
func (s *Storage) UpdateNote(ctx context.Context, note *models.Note, expectedVersion int64) error {
	query := `UPDATE notes SET title = $1, content = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND user_id = $5 AND version = $6
		RETURNING version`

	var version int64
	err := s.db.QueryRowContext(ctx, query, note.Title, note.Content, note.UpdatedAt,
		note.ID, note.OwnerID, expectedVersion).Scan(&version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("db error: %w", err)
		}
		if _, err := s.GetNote(ctx, note.OwnerID, note.ID); err != nil {
			return err
		}
		return storage.ErrVersionConflict
	}

	note.Version = version

	return nil
}

// DeleteNote removes a note of the owner
func (s *Storage) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return storage.ErrNoteNotFound
	}

	return nil
}
