package logout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	service := new(AuthServiceMock)
	service.On("Logout", mock.Anything, "session-token").Return()

	handler := New(newNoopLogger(), service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer session-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")
	service.AssertExpectations(t)
}

func TestHandler_ServeHTTP_AlwaysSucceeds(t *testing.T) {
	// Повторный выход с уже отозванным токеном не является ошибкой.
	service := new(AuthServiceMock)
	service.On("Logout", mock.Anything, mock.Anything).Return()

	handler := New(newNoopLogger(), service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer already-revoked")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
