package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/notekeeper/pkg/api"
)

// Error ответ сервера со статусом вне 2xx
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a server Error with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Токен переносим только на тот же хост
				if auth := via[0].Header.Get("Authorization"); auth != "" && req.URL.Host == via[0].URL.Host {
					req.Header.Set("Authorization", auth)
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя и сразу возвращает токен
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает пользователя, которому принадлежит токен
func (c *Client) Me(ctx context.Context, token string) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// ListNotes возвращает все заметки владельца токена
func (c *Client) ListNotes(ctx context.Context, token string) ([]api.NoteResponse, error) {
	var resp []api.NoteResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/notes", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list notes request failed: %w", err)
	}
	return resp, nil
}

// GetNote возвращает одну заметку
func (c *Client) GetNote(ctx context.Context, token, id string) (*api.NoteResponse, error) {
	var resp api.NoteResponse
	if err := c.doRequest(ctx, http.MethodGet, notePath(id), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get note request failed: %w", err)
	}
	return &resp, nil
}

// CreateNote создает заметку
func (c *Client) CreateNote(ctx context.Context, token string, req api.NoteRequest) (*api.NoteResponse, error) {
	var resp api.NoteResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/notes", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create note request failed: %w", err)
	}
	return &resp, nil
}

// UpdateNote заменяет заголовок и текст заметки
func (c *Client) UpdateNote(ctx context.Context, token, id string, req api.UpdateNoteRequest) (*api.NoteResponse, error) {
	var resp api.NoteResponse
	if err := c.doRequest(ctx, http.MethodPut, notePath(id), token, req, &resp); err != nil {
		return nil, fmt.Errorf("update note request failed: %w", err)
	}
	return &resp, nil
}

// DeleteNote удаляет заметку
func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, notePath(id), token, nil, nil); err != nil {
		return fmt.Errorf("delete note request failed: %w", err)
	}
	return nil
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			switch {
			case errResp.Message != "":
				apiErr.Message = errResp.Message
			case errResp.Error != "":
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
