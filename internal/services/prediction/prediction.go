// Package services содержит бизнес-логику конвейера предсказаний:
// диспетчеризацию по модальности, запись в журнал и выдачу истории с кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/lib/digest"
	"github.com/magabrotheeeer/health-predictor/internal/metrics"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// DefaultHistoryLimit — размер страницы истории по умолчанию.
const DefaultHistoryLimit = 50

// PredictionRepository определяет методы журнала предсказаний в хранилище.
type PredictionRepository interface {
	// SavePrediction дописывает запись и возвращает её ID.
	SavePrediction(ctx context.Context, entry models.PredictionEntry) (int64, error)
	// ListPredictions возвращает записи пользователя, новые первыми.
	ListPredictions(ctx context.Context, userUID string, modality models.Modality, limit, offset int) ([]*models.PredictionEntry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PredictionService реализует конвейер предсказаний поверх реестра адаптеров
// и журнала. Ошибка адаптера не оставляет следа в журнале; успешный результат
// считается выданным только после надёжной записи.
type PredictionService struct {
	repo     PredictionRepository
	registry *adapter.Registry
	cache    Cache
	log      *slog.Logger
}

// NewPredictionService создает новый экземпляр PredictionService.
func NewPredictionService(repo PredictionRepository, registry *adapter.Registry, cache Cache, log *slog.Logger) *PredictionService {
	return &PredictionService{
		repo:     repo,
		registry: registry,
		cache:    cache,
		log:      log,
	}
}

// Predict вызывает адаптер модальности и дописывает результат в журнал.
func (s *PredictionService) Predict(ctx context.Context, userUID string, modality models.Modality, input []byte) (*models.PredictionEntry, error) {
	ad, err := s.registry.Get(modality)
	if err != nil {
		return nil, err
	}

	res, err := ad.Predict(ctx, input)
	if err != nil {
		metrics.PredictionFailuresTotal.WithLabelValues(string(modality)).Inc()
		return nil, err
	}

	entry := models.PredictionEntry{
		UserUID:          userUID,
		Modality:         modality,
		InputDigest:      digest.Sum(input),
		ResultLabel:      res.Label,
		ResultConfidence: res.Confidence,
	}
	id, err := s.repo.SavePrediction(ctx, entry)
	if err != nil {
		metrics.PredictionFailuresTotal.WithLabelValues(string(modality)).Inc()
		return nil, err
	}
	entry.ID = id
	entry.CreatedAt = time.Now().UTC()

	metrics.PredictionsTotal.WithLabelValues(string(modality), res.Label).Inc()
	s.log.Info("recorded prediction",
		slog.Int64("id", id),
		slog.String("modality", string(modality)),
		slog.String("result", res.Label))

	cacheKey := historyCacheKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate history cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &entry, nil
}

// History возвращает записи журнала пользователя, новые первыми.
// Первая страница без фильтра кешируется и инвалидируется при записи.
func (s *PredictionService) History(ctx context.Context, userUID string, modality models.Modality, limit, offset int) ([]*models.PredictionEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	cacheable := modality == "" && offset == 0 && limit == DefaultHistoryLimit
	cacheKey := historyCacheKey(userUID)
	if cacheable {
		var cached []*models.PredictionEntry
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read history cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
		if found {
			return cached, nil
		}
	}

	result, err := s.repo.ListPredictions(ctx, userUID, modality, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to cache history", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

func historyCacheKey(userUID string) string {
	return fmt.Sprintf("history:%s", userUID)
}
