package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
)

// ListNotes returns owner's notes ordered by creation time
func (s *Storage) ListNotes(ctx context.Context, ownerID string) ([]*models.Note, error) {
	query := `
		SELECT id, user_id, title, content, version, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// GetNote retrieves a single note of the owner
func (s *Storage) GetNote(ctx context.Context, ownerID, noteID string) (*models.Note, error) {
	query := `
		SELECT id, user_id, title, content, version, created_at, updated_at
		FROM notes
		WHERE id = ? AND user_id = ?
	`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, noteID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// CreateNote stores a new note
func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, content, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Content,
		note.Version,
		note.CreatedAt.UnixMilli(),
		note.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// UpdateNote performs compare-and-swap on version
func (s *Storage) UpdateNote(ctx context.Context, note *models.Note, expectedVersion int64) error {
	query := `
		UPDATE notes
		SET title = ?, content = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND user_id = ? AND version = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		note.UpdatedAt.UnixMilli(),
		note.ID,
		note.OwnerID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		// Различаем отсутствие заметки и устаревшую версию
		if _, err := s.GetNote(ctx, note.OwnerID, note.ID); err != nil {
			return err
		}
		return storage.ErrVersionConflict
	}

	note.Version = expectedVersion + 1

	return nil
}

// DeleteNote removes a note of the owner
func (s *Storage) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	query := `DELETE FROM notes WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrNoteNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var createdAt, updatedAt int64

	if err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	note.CreatedAt = time.UnixMilli(createdAt).UTC()
	note.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return note, nil
}
