// Package diabetes реализует HTTP-обработчик оценки риска диабета.
//
// Handler принимает JSON с табличными показателями, извлекает пользователя
// из контекста и передаёт сырой вход конвейеру предсказаний. Диапазоны полей
// проверяет адаптер: вход с ошибкой не доходит до модели и не попадает в журнал.
package diabetes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/health-predictor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/health-predictor/internal/http/response"
	"github.com/magabrotheeeer/health-predictor/internal/lib/sl"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// Service описывает интерфейс конвейера предсказаний.
type Service interface {
	Predict(ctx context.Context, userUID string, modality models.Modality, input []byte) (*models.PredictionEntry, error)
}

// Handler обрабатывает HTTP-запросы оценки риска диабета.
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
// @Summary Оценка риска диабета
// @Description Принимает 21 табличный показатель, возвращает метку и уверенность. Результат дописывается в журнал.
// @Tags Predictions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Результат предсказания"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Показатель вне допустимого диапазона"
// @Failure 500 {object} response.ErrorResponse "Ошибка предсказания"
// @Router /predictions/diabetes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prediction.diabetes"

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

	input, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	entry, err := h.service.Predict(r.Context(), userUID, models.ModalityDiabetes, input)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			log.Warn("input rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("prediction failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("prediction failed"))
		return
	}

	log.Info("prediction recorded", slog.Int64("id", entry.ID), slog.String("result", entry.ResultLabel))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":         entry.ID,
		"modality":   entry.Modality,
		"result":     entry.ResultLabel,
		"confidence": entry.ResultConfidence,
	}))
}
