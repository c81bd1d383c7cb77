package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/notekeeper/internal/models"
)

// AuthFailure причина, по которой предъявленный токен не дал identity.
// Наружу не отдается: клиент всегда видит один и тот же 401.
type AuthFailure string

const (
	// FailureNone токен не предъявлен либо проверка прошла успешно
	FailureNone AuthFailure = ""
	// FailureExpired подпись верна, но срок действия истек
	FailureExpired AuthFailure = "expired"
	// FailureInvalidSignature подпись не совпадает
	FailureInvalidSignature AuthFailure = "invalid_signature"
	// FailureMalformed токен не удалось разобрать
	FailureMalformed AuthFailure = "malformed"
	// FailureUserMissing токен валиден, но пользователя больше нет
	FailureUserMissing AuthFailure = "user_missing"
)

// AuthResult is the outcome of the authentication gate for one request.
// Identity is nil for anonymous requests and for failed verification.
type AuthResult struct {
	Identity *models.Identity
	Failure  AuthFailure
}

// Authenticated reports whether the request carries a verified identity
func (r AuthResult) Authenticated() bool {
	return r.Identity != nil
}

// contextKey тип для ключей контекста
type contextKey string

// authResultKey ключ для хранения AuthResult в контексте
const authResultKey contextKey = "auth_result"

// WithAuthResult returns a copy of ctx carrying res
func WithAuthResult(ctx context.Context, res AuthResult) context.Context {
	return context.WithValue(ctx, authResultKey, res)
}

// AuthResultFrom извлекает результат аутентификации из контекста.
// Без gate запрос считается анонимным.
func AuthResultFrom(ctx context.Context) AuthResult {
	res, _ := ctx.Value(authResultKey).(AuthResult)
	return res
}

// IdentityHandlerFunc is a handler that receives the caller's identity explicitly
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, who models.Identity)

// RequireIdentity adapts next into an http.HandlerFunc that runs only for authenticated
// requests. Otherwise it writes 401 with a WWW-Authenticate challenge.
func RequireIdentity(logger *slog.Logger, next IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := AuthResultFrom(r.Context())
		if !res.Authenticated() {
			challenge := `Bearer realm="notekeeper"`
			if res.Failure != FailureNone {
				challenge += `, error="invalid_token"`
			}
			w.Header().Set("WWW-Authenticate", challenge)
			WriteError(logger, w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		next(w, r, *res.Identity)
	}
}
