package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Artifact — экспортированные параметры предобученной модели: имена признаков,
// параметры нормализации и веса логистического слоя. Формат файла непрозрачен
// для остального кода: адаптеры видят только Score.
type Artifact struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Std      []float64 `json:"std"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

// LoadArtifact читает и проверяет файл артефакта. Вызывается один раз
// при первом обращении к адаптеру, дальше артефакт только читается.
func LoadArtifact(path string) (*Artifact, error) {
	const op = "adapter.LoadArtifact"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n := len(a.Features)
	if n == 0 || len(a.Mean) != n || len(a.Std) != n || len(a.Weights) != n {
		return nil, fmt.Errorf("%s: inconsistent artifact dimensions", op)
	}
	for i, s := range a.Std {
		if s == 0 {
			return nil, fmt.Errorf("%s: zero std for feature %s", op, a.Features[i])
		}
	}
	return &a, nil
}

// Score нормализует вектор признаков и возвращает вероятность положительного
// класса по логистической функции.
func (a *Artifact) Score(vec []float64) (float64, error) {
	if len(vec) != len(a.Features) {
		return 0, fmt.Errorf("expected %d features, got %d", len(a.Features), len(vec))
	}
	z := a.Bias
	for i, v := range vec {
		z += a.Weights[i] * (v - a.Mean[i]) / a.Std[i]
	}
	return 1.0 / (1.0 + math.Exp(-z)), nil
}

// ResultFromProbability превращает вероятность положительного класса
// в метку и уверенность: уверенность — вероятность выбранной метки.
func ResultFromProbability(prob float64) *Result {
	if prob >= 0.5 {
		return &Result{Label: LabelPositive, Confidence: prob}
	}
	return &Result{Label: LabelNegative, Confidence: 1 - prob}
}
