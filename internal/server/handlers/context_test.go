package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/notekeeper/internal/models"
)

func TestAuthResultFrom_DefaultsToAnonymous(t *testing.T) {
	res := AuthResultFrom(context.Background())
	assert.False(t, res.Authenticated())
	assert.Equal(t, FailureNone, res.Failure)
}

func TestRequireIdentity(t *testing.T) {
	alice := &models.Identity{UserID: "user-1", Username: "alice"}

	tests := []struct {
		name              string
		expectedChallenge string
		result            AuthResult
		expectedStatus    int
		expectCalled      bool
	}{
		{
			name:           "authenticated",
			result:         AuthResult{Identity: alice},
			expectedStatus: http.StatusOK,
			expectCalled:   true,
		},
		{
			name:              "anonymous",
			result:            AuthResult{},
			expectedStatus:    http.StatusUnauthorized,
			expectedChallenge: `Bearer realm="notekeeper"`,
		},
		{
			name:              "expired token",
			result:            AuthResult{Failure: FailureExpired},
			expectedStatus:    http.StatusUnauthorized,
			expectedChallenge: `Bearer realm="notekeeper", error="invalid_token"`,
		},
		{
			name:              "user missing",
			result:            AuthResult{Failure: FailureUserMissing},
			expectedStatus:    http.StatusUnauthorized,
			expectedChallenge: `Bearer realm="notekeeper", error="invalid_token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireIdentity(setupTestLogger(), func(w http.ResponseWriter, r *http.Request, who models.Identity) {
				called = true
				assert.Equal(t, *alice, who)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			req = req.WithContext(WithAuthResult(req.Context(), tt.result))
			w := httptest.NewRecorder()

			handler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectCalled, called)
			assert.Equal(t, tt.expectedChallenge, w.Header().Get("WWW-Authenticate"))

			if tt.expectedStatus == http.StatusUnauthorized {
				errResp := decodeError(t, w.Body)
				// причина отказа наружу не попадает
				assert.Equal(t, "unauthenticated", errResp.Message)
			}
		})
	}
}
