package pages

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPageRequest(name string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/"+name, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		wantStatus int
		wantBody   string
	}{
		{"страница about", "about", http.StatusOK, "About"},
		{"страница privacy", "privacy", http.StatusOK, "Privacy"},
		{"страница contact", "contact", http.StatusOK, "Contact"},
		{"неизвестная страница", "admin", http.StatusNotFound, "page not found"},
	}

	handler := New(newNoopLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newPageRequest(tt.page))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
