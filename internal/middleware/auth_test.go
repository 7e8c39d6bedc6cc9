package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-web-gallery/internal/model"
	"go-web-gallery/pkg/apierror"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
}

func (s *stubValidator) Verify(tokenString string) (*model.AuthClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func okHandler(t *testing.T, wantClaims bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantClaims {
			_, ok := ClaimsFromContext(r.Context())
			assert.True(t, ok, "claims should be present in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorBody {
	var body model.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{Username: "alice", Role: model.RoleUser}})
	handler := mw.RequireAuth(okHandler(t, false))

	req := httptest.NewRequest("GET", "/api/gallery", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing Authorization Header", decodeError(t, rec).Error.Message)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{Username: "alice", Role: model.RoleUser}})
	handler := mw.RequireAuth(okHandler(t, false))

	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest("GET", "/api/gallery", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "Invalid Authorization Header format", decodeError(t, rec).Error.Message, "header %q", header)
	}
}

func TestRequireAuth_VerificationFailure(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{
		err: apierror.New("UNAUTHORIZED", "Token verification failed", "", http.StatusUnauthorized),
	})
	handler := mw.RequireAuth(okHandler(t, false))

	req := httptest.NewRequest("GET", "/api/gallery", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token verification failed", decodeError(t, rec).Error.Message)
}

func TestRequireAuth_OptionsBypassesAuth(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{
		err: apierror.New("UNAUTHORIZED", "Token verification failed", "", http.StatusUnauthorized),
	})
	handler := mw.RequireAuth(okHandler(t, false))

	req := httptest.NewRequest(http.MethodOptions, "/api/gallery", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{Username: "alice", Role: model.RoleUser}})
	handler := mw.RequireAuth(okHandler(t, true))

	req := httptest.NewRequest("GET", "/api/gallery", nil)
	req.Header.Set("Authorization", "Bearer some-valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{Username: "bob", Role: model.RoleUser}})
	handler := mw.RequireAuth(mw.RequireRoles(model.RoleAdmin)(okHandler(t, false)))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer some-valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{Username: "root", Role: model.RoleAdmin}})
	adminHandler := admin.RequireAuth(admin.RequireRoles(model.RoleAdmin)(okHandler(t, false)))

	req2 := httptest.NewRequest("GET", "/api/admin/users", nil)
	req2.Header.Set("Authorization", "Bearer some-valid-token")
	rec2 := httptest.NewRecorder()
	adminHandler.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusOK, rec2.Code)
}
