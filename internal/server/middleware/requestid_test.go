package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/logging"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent", incoming: "", keep: false},
		{name: "caller id kept", incoming: "req-123", keep: true},
		{name: "id with spaces replaced", incoming: "bad id", keep: false},
		{name: "too long replaced", incoming: strings.Repeat("a", maxRequestIDLen+1), keep: false},
		{name: "control chars replaced", incoming: "abc\x01", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logging.RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			echoed := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, echoed)
			assert.Equal(t, echoed, seen, "context and header must carry the same id")

			if tt.keep {
				assert.Equal(t, tt.incoming, echoed)
				return
			}
			_, err := ulid.ParseStrict(echoed)
			assert.NoError(t, err, "generated id must be a ULID")
		})
	}
}

func TestRequestIDMiddleware_Unique(t *testing.T) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	seen := make(map[string]struct{})
	for range 100 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(RequestIDHeader)
		_, dup := seen[id]
		require.False(t, dup, "duplicate request id %s", id)
		seen[id] = struct{}{}
	}
}
