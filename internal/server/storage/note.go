package storage

import (
	"context"

	"github.com/iudanet/notekeeper/internal/models"
)

// NoteStorage defines interface for note persistence.
// Every method is scoped by owner: a note of another user behaves exactly like a missing one.
type NoteStorage interface {
	// ListNotes returns owner's notes ordered by created_at, then id
	// Returns empty slice if owner has no notes
	ListNotes(ctx context.Context, ownerID string) ([]*models.Note, error)

	// GetNote retrieves a single note
	// Returns ErrNoteNotFound if note doesn't exist or is not owned by ownerID
	GetNote(ctx context.Context, ownerID, noteID string) (*models.Note, error)

	// CreateNote stores a new note
	CreateNote(ctx context.Context, note *models.Note) error

	// UpdateNote writes title, content and updated_at and bumps version,
	// only if the stored version still equals expectedVersion.
	// On success note.Version holds the new version.
	// Returns ErrNoteNotFound or ErrVersionConflict
	UpdateNote(ctx context.Context, note *models.Note, expectedVersion int64) error

	// DeleteNote removes a note
	// Returns ErrNoteNotFound if note doesn't exist or is not owned by ownerID
	DeleteNote(ctx context.Context, ownerID, noteID string) error
}
