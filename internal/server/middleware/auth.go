package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/handlers"
	"github.com/iudanet/notekeeper/internal/server/identity"
	"github.com/iudanet/notekeeper/internal/server/jwt"
	"github.com/iudanet/notekeeper/internal/server/metrics"
)

// TokenVerifier проверяет токен и возвращает username из него
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver находит текущую identity пользователя по username
type IdentityResolver interface {
	Lookup(ctx context.Context, username string) (*models.Identity, error)
}

// AuthMiddleware создает authentication gate.
// Gate никогда не отклоняет запрос сам: он кладет handlers.AuthResult в контекст,
// а решение принимает handlers.RequireIdentity. Исключение: ошибка хранилища при
// поиске пользователя, тогда запрос завершается с 500.
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier, resolver IdentityResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				m.AuthOutcome(metrics.OutcomeAnonymous)
				next.ServeHTTP(w, r.WithContext(handlers.WithAuthResult(ctx, handlers.AuthResult{})))
				return
			}

			res := handlers.AuthResult{}

			username, err := verifier.Verify(token)
			if err != nil {
				res.Failure = classify(err)
				logger.WarnContext(ctx, "token rejected",
					slog.String("reason", string(res.Failure)),
					slog.Any("error", err))
				m.AuthOutcome(string(res.Failure))
				next.ServeHTTP(w, r.WithContext(handlers.WithAuthResult(ctx, res)))
				return
			}

			who, err := resolver.Lookup(ctx, username)
			switch {
			case errors.Is(err, identity.ErrUserNotFound):
				res.Failure = handlers.FailureUserMissing
				logger.WarnContext(ctx, "token rejected",
					slog.String("reason", string(res.Failure)),
					slog.String("username", username))
				m.AuthOutcome(string(res.Failure))
			case err != nil:
				logger.ErrorContext(ctx, "failed to resolve token subject", slog.Any("error", err))
				handlers.WriteError(logger, w, "internal server error", http.StatusInternalServerError)
				return
			default:
				res.Identity = who
				logger.DebugContext(ctx, "user authenticated",
					slog.String("user_id", who.UserID),
					slog.String("username", who.Username))
				m.AuthOutcome(metrics.OutcomeAuthenticated)
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithAuthResult(ctx, res)))
		})
	}
}

// bearerToken извлекает токен из "Bearer <token>". Отсутствующий заголовок,
// другая схема или пустой токен означают анонимный запрос.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

func classify(err error) handlers.AuthFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return handlers.FailureExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return handlers.FailureInvalidSignature
	default:
		return handlers.FailureMalformed
	}
}
