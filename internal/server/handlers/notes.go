package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/pkg/api"
)

// NoteService owner-scoped операции над заметками
type NoteService interface {
	List(ctx context.Context, who models.Identity) ([]*models.Note, error)
	Get(ctx context.Context, who models.Identity, id string) (*models.Note, error)
	Create(ctx context.Context, who models.Identity, title, content string) (*models.Note, error)
	Update(ctx context.Context, who models.Identity, id, title, content string, expectedVersion *int64) (*models.Note, error)
	Delete(ctx context.Context, who models.Identity, id string) error
}

// NotesHandler handles /api/notes endpoints. Every method expects the caller's
// identity and is mounted through RequireIdentity.
type NotesHandler struct {
	logger *slog.Logger
	notes  NoteService
}

// NewNotesHandler создает handler заметок
func NewNotesHandler(logger *slog.Logger, notes NoteService) *NotesHandler {
	return &NotesHandler{
		logger: logger,
		notes:  notes,
	}
}

// List обрабатывает GET /api/notes
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request, who models.Identity) {
	ctx := r.Context()

	list, err := h.notes.List(ctx, who)
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	resp := make([]api.NoteResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, noteResponse(n))
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// Create обрабатывает POST /api/notes
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request, who models.Identity) {
	ctx := r.Context()

	var req api.NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	note, err := h.notes.Create(ctx, who, req.Title, req.Content)
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	w.Header().Set("Location", "/api/notes/"+note.ID)
	WriteJSON(h.logger, w, noteResponse(note), http.StatusCreated)
}

// Get обрабатывает GET /api/notes/{id}
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request, who models.Identity) {
	ctx := r.Context()

	note, err := h.notes.Get(ctx, who, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	WriteJSON(h.logger, w, noteResponse(note), http.StatusOK)
}

// Update обрабатывает PUT /api/notes/{id}
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request, who models.Identity) {
	ctx := r.Context()

	var req api.UpdateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	note, err := h.notes.Update(ctx, who, r.PathValue("id"), req.Title, req.Content, req.Version)
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	WriteJSON(h.logger, w, noteResponse(note), http.StatusOK)
}

// Delete обрабатывает DELETE /api/notes/{id}
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request, who models.Identity) {
	ctx := r.Context()

	if err := h.notes.Delete(ctx, who, r.PathValue("id")); err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func noteResponse(n *models.Note) api.NoteResponse {
	return api.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Version:   n.Version,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}
