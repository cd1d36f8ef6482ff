package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// SavePrediction дописывает запись в журнал предсказаний и возвращает её ID.
// Запись фиксируется одним INSERT: результат считается сохранённым только
// после подтверждения базой. Методов обновления и удаления у журнала нет.
func (s *Storage) SavePrediction(ctx context.Context, entry models.PredictionEntry) (int64, error) {
	const op = "storage.SavePrediction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO predictions (user_uid, modality, input_digest, result_label, result_confidence)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.Modality, entry.InputDigest,
		entry.ResultLabel, entry.ResultConfidence).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPredictions возвращает записи журнала пользователя, новые первыми.
// Вторичная сортировка по id делает порядок устойчивым при повторных запросах.
// Пустая modality означает все модальности.
func (s *Storage) ListPredictions(ctx context.Context, userUID string, modality models.Modality, limit, offset int) ([]*models.PredictionEntry, error) {
	const op = "storage.ListPredictions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, modality, input_digest, result_label, result_confidence, created_at
			  FROM predictions
			  WHERE user_uid = $1 AND ($2 = '' OR modality = $2)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userUID, string(modality), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PredictionEntry
	for rows.Next() {
		var e models.PredictionEntry
		if err = rows.Scan(&e.ID, &e.UserUID, &e.Modality, &e.InputDigest,
			&e.ResultLabel, &e.ResultConfidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
