package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/iudanet/notekeeper/internal/client/api"
	"github.com/iudanet/notekeeper/internal/client/auth"
	"github.com/iudanet/notekeeper/internal/client/storage"
	pkgapi "github.com/iudanet/notekeeper/pkg/api"
)

// fakeIO пишет вывод в буфер и отдает заранее заданные ответы
type fakeIO struct {
	out       bytes.Buffer
	inputs    []string
	passwords []string
	prompts   []string
}

func (f *fakeIO) Println(a ...any)               { fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.inputs) == 0 {
		return "", errors.New("unexpected prompt: " + prompt)
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.passwords) == 0 {
		return "", errors.New("unexpected password prompt: " + prompt)
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

// fakeAuth хранит сессию в памяти
type fakeAuth struct {
	session      *storage.AuthData
	err          error
	lastUsername string
	lastPassword string
	expired      bool
}

func (f *fakeAuth) login(username, password string) (*storage.AuthData, error) {
	f.lastUsername, f.lastPassword = username, password
	if f.err != nil {
		return nil, f.err
	}
	f.session = &storage.AuthData{
		Username:    username,
		UserID:      "user-" + username,
		AccessToken: "token-" + username,
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}
	return f.session, nil
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) (*storage.AuthData, error) {
	return f.login(username, password)
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	return f.login(username, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.session == nil {
		return auth.ErrNotAuthenticated
	}
	f.session = nil
	return nil
}

func (f *fakeAuth) Stored(ctx context.Context) (*storage.AuthData, error) {
	if f.session == nil {
		return nil, auth.ErrNotAuthenticated
	}
	return f.session, nil
}

func (f *fakeAuth) Session(ctx context.Context) (*storage.AuthData, error) {
	if f.session == nil {
		return nil, auth.ErrNotAuthenticated
	}
	if f.expired {
		return nil, auth.ErrSessionExpired
	}
	return f.session, nil
}

// fakeNotes in-memory сервер заметок одного пользователя
type fakeNotes struct {
	notes     map[string]*pkgapi.NoteResponse
	lastToken string
	nextID    int
	deleted   []string
}

func newFakeNotes(notes ...pkgapi.NoteResponse) *fakeNotes {
	f := &fakeNotes{notes: map[string]*pkgapi.NoteResponse{}}
	for i := range notes {
		n := notes[i]
		f.notes[n.ID] = &n
	}
	return f
}

func notFound() error {
	return &api.Error{StatusCode: http.StatusNotFound, Message: "note not found"}
}

func (f *fakeNotes) ListNotes(ctx context.Context, token string) ([]pkgapi.NoteResponse, error) {
	f.lastToken = token
	out := make([]pkgapi.NoteResponse, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNotes) GetNote(ctx context.Context, token, id string) (*pkgapi.NoteResponse, error) {
	f.lastToken = token
	n, ok := f.notes[id]
	if !ok {
		return nil, notFound()
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) CreateNote(ctx context.Context, token string, req pkgapi.NoteRequest) (*pkgapi.NoteResponse, error) {
	f.lastToken = token
	f.nextID++
	n := &pkgapi.NoteResponse{ID: fmt.Sprintf("note-%d", f.nextID), Title: req.Title, Content: req.Content, Version: 1}
	f.notes[n.ID] = n
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) UpdateNote(ctx context.Context, token, id string, req pkgapi.UpdateNoteRequest) (*pkgapi.NoteResponse, error) {
	f.lastToken = token
	n, ok := f.notes[id]
	if !ok {
		return nil, notFound()
	}
	if req.Version != nil && *req.Version != n.Version {
		return nil, &api.Error{StatusCode: http.StatusConflict, Message: "note was modified concurrently, re-fetch and retry"}
	}
	n.Title, n.Content = req.Title, req.Content
	n.Version++
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) DeleteNote(ctx context.Context, token, id string) error {
	f.lastToken = token
	if _, ok := f.notes[id]; !ok {
		return notFound()
	}
	delete(f.notes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeMetadata запоминает последний сохраненный URL
type fakeMetadata struct {
	serverURL string
}

func (f *fakeMetadata) SaveServerURL(ctx context.Context, serverURL string) error {
	f.serverURL = serverURL
	return nil
}

func (f *fakeMetadata) GetServerURL(ctx context.Context) (string, error) {
	return f.serverURL, nil
}

func newTestCli(io *fakeIO, authSvc *fakeAuth, notes *fakeNotes) (*Cli, *fakeMetadata) {
	meta := &fakeMetadata{}
	c := New(io, authSvc, notes, meta, "http://notes.test", Passwords{})
	c.getenv = func(string) string { return "" }
	return c, meta
}

func loggedIn() *fakeAuth {
	return &fakeAuth{session: &storage.AuthData{
		Username:    "alice",
		UserID:      "user-alice",
		AccessToken: "token-alice",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}}
}
