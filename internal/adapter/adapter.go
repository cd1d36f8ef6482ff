// Package adapter определяет единый контракт над разнородными предобученными
// моделями: каждый адаптер владеет одним артефактом, загружает его один раз
// и отвечает на Predict меткой и уверенностью. Побочных эффектов у адаптеров
// нет, запись в журнал — обязанность вызывающего сервиса.
package adapter

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// LabelPositive и LabelNegative — закрытый набор меток результата.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
)

// Result — результат предсказания: дискретная метка и уверенность в [0,1].
type Result struct {
	Label      string
	Confidence float64
}

// Adapter описывает единый контракт предсказания для одной модальности.
type Adapter interface {
	// Modality возвращает модальность, которую обслуживает адаптер.
	Modality() models.Modality
	// Predict валидирует вход и возвращает результат предобученной модели.
	// Ошибка валидации не достигает модели.
	Predict(ctx context.Context, input []byte) (*Result, error)
}

// Registry — явный реестр адаптеров, собираемый один раз при старте процесса.
// Заменяет скрытые глобальные синглтоны: передаётся обработчикам по ссылке,
// после сборки только читается.
type Registry struct {
	adapters map[models.Modality]Adapter
}

// NewRegistry собирает реестр из переданных адаптеров.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[models.Modality]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Modality()] = a
	}
	return &Registry{adapters: m}
}

// Get возвращает адаптер для модальности.
func (r *Registry) Get(modality models.Modality) (Adapter, error) {
	a, ok := r.adapters[modality]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for modality %q", modality)
	}
	return a, nil
}
