// Package diabetes реализует табличный адаптер оценки риска диабета.
//
// Вход — JSON-объект с фиксированным набором из 21 числового показателя.
// Каждое поле проверяется на попадание в документированный физиологический
// диапазон; выход за диапазон — ошибка, а не тихое приведение к границе,
// и до модели такой вход не доходит.
package diabetes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// fieldRange описывает допустимый диапазон одного показателя.
type fieldRange struct {
	Name string
	Min  float64
	Max  float64
}

// Диапазоны повторяют ограничения исходной схемы данных:
// возраст хранится номером пятилетней группы, бинарные признаки — 0/1.
var fieldRanges = []fieldRange{
	{"age", 1, 13},
	{"bmi", 10, 100},
	{"high_bp", 0, 1},
	{"high_chol", 0, 1},
	{"chol_check", 0, 1},
	{"smoker", 0, 1},
	{"stroke", 0, 1},
	{"heart_disease", 0, 1},
	{"phys_activity", 0, 1},
	{"fruits", 0, 1},
	{"veggies", 0, 1},
	{"hvy_alcohol", 0, 1},
	{"any_healthcare", 0, 1},
	{"no_doc_cost", 0, 1},
	{"gen_health", 1, 5},
	{"ment_health", 0, 30},
	{"phys_health", 0, 30},
	{"diff_walk", 0, 1},
	{"sex", 0, 1},
	{"education", 1, 6},
	{"income", 1, 8},
}

// Adapter — табличный адаптер с лениво загружаемым артефактом модели.
type Adapter struct {
	artifactPath string

	once     sync.Once
	artifact *adapter.Artifact
	loadErr  error
}

// New создает адаптер с путём к артефакту модели. Артефакт загружается
// при первом Predict и дальше только читается.
func New(artifactPath string) *Adapter {
	return &Adapter{artifactPath: artifactPath}
}

// Modality возвращает обслуживаемую модальность.
func (a *Adapter) Modality() models.Modality {
	return models.ModalityDiabetes
}

// Predict валидирует табличный вход и возвращает метку риска с уверенностью.
func (a *Adapter) Predict(_ context.Context, input []byte) (*adapter.Result, error) {
	const op = "adapter.diabetes.Predict"

	fields, err := decodeFields(input)
	if err != nil {
		return nil, err
	}

	a.once.Do(func() {
		a.artifact, a.loadErr = adapter.LoadArtifact(a.artifactPath)
	})
	if a.loadErr != nil {
		return nil, fmt.Errorf("%s: %w", op, a.loadErr)
	}

	vec := make([]float64, 0, len(a.artifact.Features))
	for _, name := range a.artifact.Features {
		v, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%s: artifact expects unknown feature %q", op, name)
		}
		vec = append(vec, v)
	}
	prob, err := a.artifact.Score(vec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return adapter.ResultFromProbability(prob), nil
}

// decodeFields разбирает JSON-вход и проверяет диапазоны всех полей.
func decodeFields(input []byte) (map[string]float64, error) {
	const op = "adapter.diabetes.decodeFields"

	var raw map[string]float64
	if err := json.NewDecoder(bytes.NewReader(input)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w: malformed feature payload", op, models.ErrInvalidInput)
	}

	fields := make(map[string]float64, len(fieldRanges))
	for _, fr := range fieldRanges {
		v, ok := raw[fr.Name]
		if !ok {
			return nil, fmt.Errorf("%s: %w: missing field %s", op, models.ErrInvalidInput, fr.Name)
		}
		if v < fr.Min || v > fr.Max {
			return nil, fmt.Errorf("%s: %w: field %s out of range [%g, %g]",
				op, models.ErrInvalidInput, fr.Name, fr.Min, fr.Max)
		}
		fields[fr.Name] = v
	}
	if len(raw) != len(fieldRanges) {
		return nil, fmt.Errorf("%s: %w: unexpected extra fields", op, models.ErrInvalidInput)
	}
	return fields, nil
}
