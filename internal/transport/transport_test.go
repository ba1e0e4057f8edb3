package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

type staticKeys map[string]string

func (s staticKeys) TenantForKey(ctx context.Context, keyHash string) (string, error) {
	return s[keyHash], nil
}

func echoTenantHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(TenantID(r.Context()) + "/" + ActorID(r.Context())))
	})
}

func TestAuthenticatorAPIKey(t *testing.T) {
	auth := &Authenticator{
		Keys: staticKeys{HashKey("key-123"): "tenant1"},
	}
	handler := auth.Middleware(echoTenantHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer key-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tenant1/", rec.Body.String())
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	auth := &Authenticator{Keys: staticKeys{}}
	handler := auth.Middleware(echoTenantHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "unauthorized", resp.Kind)
}

func TestAuthenticatorRejectsUnknownKey(t *testing.T) {
	auth := &Authenticator{Keys: staticKeys{}}
	handler := auth.Middleware(echoTenantHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorJWT(t *testing.T) {
	const secret = "test-secret"
	token, _, err := GenerateToken("u1", "tenant9", secret, time.Hour)
	require.NoError(t, err)

	auth := &Authenticator{JWTSecret: secret}
	handler := auth.Middleware(echoTenantHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tenant9/u1", rec.Body.String())
}

func TestAuthenticatorJWTWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("u1", "tenant9", "other-secret", time.Hour)
	require.NoError(t, err)

	auth := &Authenticator{JWTSecret: "test-secret"}
	handler := auth.Middleware(echoTenantHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", &validation.Error{Violations: []string{"name is required"}}, http.StatusUnprocessableEntity, "validation"},
		{"not found", template.ErrTemplateNotFound, http.StatusNotFound, "not_found"},
		{"immutable", version.ErrVersionFinal, http.StatusConflict, "immutable"},
		{"final exists", version.ErrFinalExists, http.StatusConflict, "conflict"},
		{"numbering", version.ErrNumberingConflict, http.StatusConflict, "conflict"},
		{"repo conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"forbidden", comment.ErrNotPermitted, http.StatusForbidden, "forbidden"},
		{"reason required", version.ErrReasonRequired, http.StatusBadRequest, "bad_request"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			require.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.kind, resp.Kind)
		})
	}
}

func TestRespondErrorValidationViolations(t *testing.T) {
	verr := &validation.Error{Violations: []string{"client.name is required", "client.email is required"}}
	rec := httptest.NewRecorder()
	respondError(rec, verr)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Violations, 2)
}

func TestHealthRoute(t *testing.T) {
	api := NewAPI(Services{}, &Authenticator{Keys: staticKeys{}}, nil)
	server := httptest.NewServer(api.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutesRequireAuth(t *testing.T) {
	api := NewAPI(Services{}, &Authenticator{Keys: staticKeys{}}, nil)
	server := httptest.NewServer(api.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/templates")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
