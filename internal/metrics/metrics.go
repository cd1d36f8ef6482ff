// Package metrics регистрирует счётчики Prometheus для конвейера предсказаний.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PredictionsTotal считает записанные в журнал предсказания по модальности и метке.
var PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "health_predictor_predictions_total",
	Help: "Number of recorded predictions by modality and result label.",
}, []string{"modality", "result"})

// PredictionFailuresTotal считает отказы адаптеров и хранилища по модальности.
var PredictionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "health_predictor_prediction_failures_total",
	Help: "Number of failed prediction requests by modality.",
}, []string{"modality"})
