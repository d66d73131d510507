package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewBufferLogger()

	var seenTrace string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/phrases", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	require.NotEmpty(t, seenTrace)

	entries, err := buf.Entries()
	require.NoError(t, err)

	var sawHandler, sawCompleted bool
	for _, e := range entries {
		assert.Equal(t, seenTrace, e["trace_id"], "every entry carries the trace id")
		switch e["msg"] {
		case "inside handler":
			sawHandler = true
		case "request completed":
			sawCompleted = true
			assert.EqualValues(t, http.StatusTeapot, e["status"])
		}
	}
	assert.True(t, sawHandler)
	assert.True(t, sawCompleted)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := &auth.MockJWTService{
		ValidateTokenFunc: func(ctx context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{Subject: "owner"}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			case "broken":
				return nil, errors.New("keystore unavailable")
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	mw := NewAuthMiddleware(jwtService)

	var subject string
	protected := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = shared.GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer good", http.StatusOK, ""},
		{"lowercase scheme", "bearer good", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "Invalid authorization format"},
		{"no token", "Bearer ", http.StatusUnauthorized, "Invalid authorization format"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "Token expired"},
		{"invalid", "Bearer forged", http.StatusUnauthorized, "Invalid token"},
		{"validator failure", "Bearer broken", http.StatusInternalServerError, "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			r := httptest.NewRequest(http.MethodGet, "/api/phrases", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
				assert.Empty(t, subject)
			} else {
				assert.Equal(t, "owner", subject)
			}
		})
	}
}

func TestAuthenticate_LogsRejectionsAtWarn(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewBufferLogger()
	mw := NewAuthMiddleware(&auth.MockJWTService{ValidationError: auth.ErrExpiredToken})
	handler := NewTraceMiddleware(log)(mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a rejected token")
	})))

	r := httptest.NewRequest(http.MethodGet, "/api/phrases", nil)
	r.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	entries, err := buf.Entries()
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e["msg"] == "API error response" {
			found = true
			assert.Equal(t, "WARN", e["level"])
			assert.EqualValues(t, http.StatusUnauthorized, e["status_code"])
			assert.Equal(t, "Token expired", e["user_message"])
		}
	}
	assert.True(t, found)
}

func TestNewAuthMiddleware_NilService(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}
