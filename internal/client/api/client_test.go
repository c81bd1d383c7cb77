package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Register проверяет успешную регистрацию
func TestClient_Register(t *testing.T) {
	expires := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "secret-password", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken: "token-123",
			TokenType:   "Bearer",
			ExpiresAt:   expires,
			UserID:      "user-123",
			Username:    "alice",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Register(context.Background(), api.RegisterRequest{Username: "alice", Password: "secret-password"})

	require.NoError(t, err)
	assert.Equal(t, "token-123", resp.AccessToken)
	assert.Equal(t, "user-123", resp.UserID)
	assert.True(t, expires.Equal(resp.ExpiresAt))
}

// TestClient_Errors проверяет разбор ответов с ошибкой
func TestClient_Errors(t *testing.T) {
	tests := []struct {
		responseBody   interface{}
		name           string
		expectedErrMsg string
		statusCode     int
	}{
		{
			name:           "username taken",
			statusCode:     http.StatusConflict,
			responseBody:   api.ErrorResponse{Error: "Conflict", Message: "username already taken"},
			expectedErrMsg: "server error (409): username already taken",
		},
		{
			name:           "only error field",
			statusCode:     http.StatusUnauthorized,
			responseBody:   api.ErrorResponse{Error: "Unauthorized"},
			expectedErrMsg: "server error (401): Unauthorized",
		},
		{
			name:           "plain text body",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "server error (500): Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Login(context.Background(), api.LoginRequest{Username: "alice", Password: "x"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
			assert.True(t, IsStatus(err, tt.statusCode))
		})
	}
}

func TestClient_Notes(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	stored := api.NoteResponse{ID: "note-1", Title: "Groceries", Content: "milk", Version: 1, CreatedAt: now, UpdatedAt: now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.NoteResponse{stored})
	})
	mux.HandleFunc("POST /api/notes", func(w http.ResponseWriter, r *http.Request) {
		var req api.NoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.NoteResponse{ID: "note-2", Title: req.Title, Content: req.Content, Version: 1})
	})
	mux.HandleFunc("GET /api/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != stored.ID {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Not Found", Message: "note not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(stored)
	})
	mux.HandleFunc("PUT /api/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req api.UpdateNoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Version)
		if *req.Version != stored.Version {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Conflict", Message: "note was modified concurrently"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.NoteResponse{ID: r.PathValue("id"), Title: req.Title, Content: req.Content, Version: *req.Version + 1})
	})
	mux.HandleFunc("DELETE /api/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	notes, err := client.ListNotes(ctx, "token-123")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)

	created, err := client.CreateNote(ctx, "token-123", api.NoteRequest{Title: "Todo", Content: "call bob"})
	require.NoError(t, err)
	assert.Equal(t, "note-2", created.ID)

	got, err := client.GetNote(ctx, "token-123", "note-1")
	require.NoError(t, err)
	assert.Equal(t, stored.Content, got.Content)

	_, err = client.GetNote(ctx, "token-123", "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))

	v := int64(1)
	updated, err := client.UpdateNote(ctx, "token-123", "note-1", api.UpdateNoteRequest{Version: &v, Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	stale := int64(0)
	_, err = client.UpdateNote(ctx, "token-123", "note-1", api.UpdateNoteRequest{Version: &stale, Title: "x"})
	assert.True(t, IsStatus(err, http.StatusConflict))

	require.NoError(t, client.DeleteNote(ctx, "token-123", "note-1"))

	_, err = client.ListNotes(ctx, "wrong-token")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestClient_Me(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.MeResponse{UserID: "user-123", Username: "alice"})
	}))
	defer server.Close()

	me, err := NewClient(server.URL).Me(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).ListNotes(ctx, "token")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
