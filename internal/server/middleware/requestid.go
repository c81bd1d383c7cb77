package middleware

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/iudanet/notekeeper/internal/logging"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// RequestIDMiddleware assigns every request a ULID, or keeps a sane id supplied by
// the caller, stores it in the context for logging and echoes it in the response.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !validRequestID(id) {
				id = ulid.Make().String()
			}

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
		})
	}
}

// validRequestID пропускает только короткие печатные ASCII id, чтобы их можно было писать в лог
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
