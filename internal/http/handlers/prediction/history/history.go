// Package history реализует HTTP-обработчик истории предсказаний пользователя.
//
// Handler возвращает записи журнала текущего пользователя, новые первыми,
// с необязательным фильтром по модальности и постраничной выборкой.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/health-predictor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/health-predictor/internal/http/response"
	"github.com/magabrotheeeer/health-predictor/internal/lib/sl"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// Service описывает интерфейс выдачи истории предсказаний.
type Service interface {
	History(ctx context.Context, userUID string, modality models.Modality, limit, offset int) ([]*models.PredictionEntry, error)
}

// Handler обрабатывает HTTP-запросы истории.
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
// @Summary История предсказаний
// @Description Возвращает записи журнала текущего пользователя, новые первыми.
// @Tags Predictions
// @Produce  json
// @Security BearerAuth
// @Param modality query string false "Фильтр по модальности (diabetes, parkinsons, pneumonia)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Записи журнала"
// @Failure 400 {object} response.ErrorResponse "Неизвестная модальность"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения журнала"
// @Router /predictions/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prediction.history"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	modality := models.Modality(r.URL.Query().Get("modality"))
	if modality != "" && !modality.Valid() {
		log.Error("unknown modality", slog.String("modality", string(modality)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown modality"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := h.service.History(r.Context(), userUID, modality, limit, offset)
	if err != nil {
		log.Error("failed to read history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read history"))
		return
	}

	log.Info("history read", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":   len(entries),
		"entries": entries,
	}))
}
