package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-web-gallery/internal/model"
	"go-web-gallery/internal/service"
	"go-web-gallery/internal/token"
)

// failingRefreshStore simulates an unreachable token store.
type failingRefreshStore struct{}

func (failingRefreshStore) Replace(context.Context, string, string, time.Time) error {
	return model.ErrStoreUnavailable
}

func (failingRefreshStore) Lookup(context.Context, string) (model.RefreshToken, error) {
	return model.RefreshToken{}, model.ErrStoreUnavailable
}

func (failingRefreshStore) Delete(context.Context, string) error {
	return model.ErrStoreUnavailable
}

func (failingRefreshStore) DeleteForUser(context.Context, string) error {
	return model.ErrStoreUnavailable
}

func newLogoutHandler(t *testing.T) *AuthHandler {
	t.Helper()
	issuer, err := token.NewIssuer("handler-test-secret", "go-web-gallery", 15*time.Minute)
	require.NoError(t, err)
	return NewAuthHandler(service.NewAuthService(nil, failingRefreshStore{}, issuer, 7*24*time.Hour))
}

func TestLogout_AlwaysAnswers200(t *testing.T) {
	h := newLogoutHandler(t)

	t.Run("store failure is logged, not surfaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{"refreshToken":"some-token"}`))
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body still succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty body still succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(``))
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
