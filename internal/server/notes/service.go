// Package notes exposes owner-scoped operations on notes.
// Every operation takes the caller's identity explicitly; a note owned by someone else
// is indistinguishable from a note that does not exist.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
	"github.com/iudanet/notekeeper/internal/validation"
)

var (
	// ErrNotFound note is absent or owned by another user
	ErrNotFound = errors.New("note not found")
	// ErrConflict note changed since the caller read it; re-fetch and retry
	ErrConflict = errors.New("note was modified concurrently")
)

// Service implements note operations on top of storage.NoteStorage
type Service struct {
	logger *slog.Logger
	store  storage.NoteStorage
	now    func() time.Time
}

// NewService создает сервис заметок
func NewService(logger *slog.Logger, store storage.NoteStorage) *Service {
	return &Service{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

// List returns the caller's notes in creation order
func (s *Service) List(ctx context.Context, who models.Identity) ([]*models.Note, error) {
	notes, err := s.store.ListNotes(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	return notes, nil
}

// Get returns one of the caller's notes
func (s *Service) Get(ctx context.Context, who models.Identity, id string) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	note, err := s.store.GetNote(ctx, who.UserID, id)
	if err != nil {
		return nil, mapError(err, "failed to get note")
	}

	return note, nil
}

// Create stores a new note owned by the caller
func (s *Service) Create(ctx context.Context, who models.Identity, title, content string) (*models.Note, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	note := &models.Note{
		ID:        uuid.New().String(),
		OwnerID:   who.UserID,
		Title:     title,
		Content:   content,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.InfoContext(ctx, "note created",
		slog.String("user_id", who.UserID),
		slog.String("note_id", note.ID))

	return note, nil
}

// Update replaces title and content of one of the caller's notes.
// expectedVersion, if set, must match the stored version; otherwise the version
// read right before the write is used, so only a concurrent writer can cause ErrConflict.
func (s *Service) Update(ctx context.Context, who models.Identity, id, title, content string, expectedVersion *int64) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, who.UserID, id)
	if err != nil {
		return nil, mapError(err, "failed to get note")
	}

	version := note.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateNote(ctx, note, version); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			s.logger.WarnContext(ctx, "note update conflict",
				slog.String("user_id", who.UserID),
				slog.String("note_id", id),
				slog.Int64("expected_version", version))
		}
		return nil, mapError(err, "failed to update note")
	}

	return note, nil
}

// Delete removes one of the caller's notes
func (s *Service) Delete(ctx context.Context, who models.Identity, id string) error {
	if !validID(id) {
		return ErrNotFound
	}

	if err := s.store.DeleteNote(ctx, who.UserID, id); err != nil {
		return mapError(err, "failed to delete note")
	}

	s.logger.InfoContext(ctx, "note deleted",
		slog.String("user_id", who.UserID),
		slog.String("note_id", id))

	return nil
}

func mapError(err error, msg string) error {
	switch {
	case errors.Is(err, storage.ErrNoteNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrVersionConflict):
		return ErrConflict
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// validID отсекает id, которые не могут принадлежать ни одной заметке
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
