package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/notekeeper/internal/server/identity"
	"github.com/iudanet/notekeeper/internal/server/notes"
	"github.com/iudanet/notekeeper/internal/validation"
)

// writeServiceError переводит ошибку сервисного слоя в HTTP ответ.
// Неизвестные ошибки логируются, клиент получает 500 без подробностей.
func writeServiceError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		WriteError(logger, w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errInvalidBody):
		WriteError(logger, w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, validation.ErrInvalidInput):
		WriteError(logger, w, validationMessage(err), http.StatusBadRequest)
	case errors.Is(err, identity.ErrUsernameTaken):
		WriteError(logger, w, "username already taken", http.StatusConflict)
	case errors.Is(err, identity.ErrInvalidCredentials):
		WriteError(logger, w, "invalid username or password", http.StatusUnauthorized)
	case errors.Is(err, notes.ErrNotFound):
		WriteError(logger, w, "note not found", http.StatusNotFound)
	case errors.Is(err, notes.ErrConflict):
		WriteError(logger, w, "note was modified concurrently, re-fetch and retry", http.StatusConflict)
	default:
		logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		WriteError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}

// validationMessage отрезает префикс sentinel ошибки: "invalid input: title is required" -> "title is required"
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, validation.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}
