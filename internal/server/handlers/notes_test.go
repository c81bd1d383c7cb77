package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/notes"
	"github.com/iudanet/notekeeper/internal/validation"
	"github.com/iudanet/notekeeper/pkg/api"
)

// mockNoteService хранит заметки в map и повторяет правила владения сервиса
type mockNoteService struct {
	notes map[string]*models.Note
	err   error
	seq   int
}

func newMockNoteService() *mockNoteService {
	return &mockNoteService{notes: make(map[string]*models.Note)}
}

func (m *mockNoteService) List(ctx context.Context, who models.Identity) ([]*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	list := []*models.Note{}
	for _, n := range m.notes {
		if n.IsOwnedBy(who) {
			list = append(list, n)
		}
	}
	return list, nil
}

func (m *mockNoteService) Get(ctx context.Context, who models.Identity, id string) (*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.notes[id]
	if !ok || !n.IsOwnedBy(who) {
		return nil, notes.ErrNotFound
	}
	return n, nil
}

func (m *mockNoteService) Create(ctx context.Context, who models.Identity, title, content string) (*models.Note, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	m.seq++
	now := time.Now()
	n := &models.Note{
		ID:        "note-" + strings.Repeat("x", m.seq),
		OwnerID:   who.UserID,
		Title:     title,
		Content:   content,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.notes[n.ID] = n
	return n, nil
}

func (m *mockNoteService) Update(ctx context.Context, who models.Identity, id, title, content string, expectedVersion *int64) (*models.Note, error) {
	n, err := m.Get(ctx, who, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != n.Version {
		return nil, notes.ErrConflict
	}
	n.Title, n.Content = title, content
	n.Version++
	return n, nil
}

func (m *mockNoteService) Delete(ctx context.Context, who models.Identity, id string) error {
	if _, err := m.Get(ctx, who, id); err != nil {
		return err
	}
	delete(m.notes, id)
	return nil
}

var (
	alice = models.Identity{UserID: "user-alice", Username: "alice"}
	bob   = models.Identity{UserID: "user-bob", Username: "bob"}
)

// newNotesMux собирает маршруты так же, как сервер, с фиксированной identity
func newNotesMux(svc NoteService) *http.ServeMux {
	logger := setupTestLogger()
	h := NewNotesHandler(logger, svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notes", RequireIdentity(logger, h.List))
	mux.HandleFunc("POST /api/notes", RequireIdentity(logger, h.Create))
	mux.HandleFunc("GET /api/notes/{id}", RequireIdentity(logger, h.Get))
	mux.HandleFunc("PUT /api/notes/{id}", RequireIdentity(logger, h.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", RequireIdentity(logger, h.Delete))
	return mux
}

func doAs(t *testing.T, mux http.Handler, who *models.Identity, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req = req.WithContext(WithAuthResult(req.Context(), AuthResult{Identity: who}))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestNotesHandler_Lifecycle(t *testing.T) {
	mux := newNotesMux(newMockNoteService())

	w := doAs(t, mux, &alice, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doAs(t, mux, &alice, http.MethodPost, "/api/notes", `{"title":"Groceries","content":"milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created api.NoteResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "/api/notes/"+created.ID, w.Header().Get("Location"))
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, int64(1), created.Version)

	w = doAs(t, mux, &bob, http.MethodGet, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "note not found", decodeError(t, w.Body).Message)

	w = doAs(t, mux, &alice, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got api.NoteResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "milk", got.Content)

	w = doAs(t, mux, &alice, http.MethodPut, "/api/notes/"+created.ID, `{"title":"Groceries","content":"milk, eggs","version":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated api.NoteResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, int64(2), updated.Version)

	w = doAs(t, mux, &alice, http.MethodPut, "/api/notes/"+created.ID, `{"title":"stale","content":"","version":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doAs(t, mux, &alice, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doAs(t, mux, &alice, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotesHandler_Unauthenticated(t *testing.T) {
	mux := newNotesMux(newMockNoteService())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/notes"},
		{http.MethodPost, "/api/notes"},
		{http.MethodGet, "/api/notes/some-id"},
		{http.MethodPut, "/api/notes/some-id"},
		{http.MethodDelete, "/api/notes/some-id"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := doAs(t, mux, nil, tc.method, tc.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestNotesHandler_CreateValidation(t *testing.T) {
	mux := newNotesMux(newMockNoteService())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"content":"x"}`},
		{name: "blank title", body: `{"title":"  "}`},
		{name: "title too long", body: `{"title":"` + strings.Repeat("t", 101) + `"}`},
		{name: "unknown field", body: `{"title":"ok","owner_id":"user-bob"}`},
		{name: "not json", body: `title=ok`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAs(t, mux, &alice, http.MethodPost, "/api/notes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestNotesHandler_InternalError(t *testing.T) {
	svc := newMockNoteService()
	svc.err = errors.New("failed to list notes: database is locked")
	mux := newNotesMux(svc)

	w := doAs(t, mux, &alice, http.MethodGet, "/api/notes", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is locked")
}
