// Package pneumonia реализует HTTP-обработчик анализа рентгеновского снимка.
//
// Handler принимает multipart-форму с файлом "image" (PNG или JPEG не меньше
// 150x150) и передаёт его конвейеру предсказаний. Недекодируемый или слишком
// маленький снимок отклоняется без записи в журнал.
package pneumonia

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

// maxUploadSize — максимальный размер загружаемого снимка.
const maxUploadSize = 32 << 20 // 32 MB

// Service описывает интерфейс конвейера предсказаний.
type Service interface {
	Predict(ctx context.Context, userUID string, modality models.Modality, input []byte) (*models.PredictionEntry, error)
}

// Handler обрабатывает HTTP-запросы анализа снимков.
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
// @Summary Анализ рентгеновского снимка
// @Description Принимает снимок в поле "image", возвращает метку и уверенность. Результат дописывается в журнал.
// @Tags Predictions
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Результат предсказания"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 415 {object} response.ErrorResponse "Неподдерживаемый формат снимка"
// @Failure 500 {object} response.ErrorResponse "Ошибка предсказания"
// @Router /predictions/pneumonia [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prediction.pneumonia"

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

	input, err := readUpload(w, r, "image")
	if err != nil {
		log.Error("failed to read uploaded image", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("image file is required"))
		return
	}

	entry, err := h.service.Predict(r.Context(), userUID, models.ModalityPneumonia, input)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedFormat) {
			log.Warn("image rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnsupportedMediaType)
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

// readUpload извлекает содержимое файла из multipart-формы.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return io.ReadAll(file)
}
