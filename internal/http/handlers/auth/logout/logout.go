// Package logout реализует HTTP-обработчик выхода: сессия токена отзывается
// немедленно, независимо от оставшегося срока действия.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/health-predictor/internal/http/response"
)

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, token string)
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Немедленно отзывает текущую сессию.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сессия отозвана"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	h.service.Logout(r.Context(), token)

	log.Info("session revoked")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out",
	}))
}
