// Package parkinsons реализует голосовой адаптер выявления болезни Паркинсона.
//
// Вход — несжатый PCM WAV. Запись короче пяти секунд или в другом формате
// отклоняется до вызова модели. Из сигнала извлекаются акустические признаки
// (частота пересечений нуля, энергия, джиттер, шиммер), которые нормализуются
// и оцениваются логистическим слоем артефакта.
package parkinsons

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// minDuration — минимальная длительность записи.
const minDuration = 5.0 // секунд

// frameSize — размер кадра для покадровых признаков.
const frameSize = 2048

// Adapter — голосовой адаптер с лениво загружаемым артефактом модели.
type Adapter struct {
	artifactPath string

	once     sync.Once
	artifact *adapter.Artifact
	loadErr  error
}

// New создает адаптер с путём к артефакту модели.
func New(artifactPath string) *Adapter {
	return &Adapter{artifactPath: artifactPath}
}

// Modality возвращает обслуживаемую модальность.
func (a *Adapter) Modality() models.Modality {
	return models.ModalityParkinsons
}

// Predict декодирует WAV, извлекает признаки и возвращает метку с уверенностью.
func (a *Adapter) Predict(_ context.Context, input []byte) (*adapter.Result, error) {
	const op = "adapter.parkinsons.Predict"

	samples, sampleRate, err := decodeWAV(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUnsupportedFormat, err)
	}
	if float64(len(samples))/float64(sampleRate) < minDuration {
		return nil, fmt.Errorf("%s: %w: audio must be at least %g seconds long",
			op, models.ErrUnsupportedFormat, minDuration)
	}

	a.once.Do(func() {
		a.artifact, a.loadErr = adapter.LoadArtifact(a.artifactPath)
	})
	if a.loadErr != nil {
		return nil, fmt.Errorf("%s: %w", op, a.loadErr)
	}

	feats := extractFeatures(samples)
	vec := make([]float64, 0, len(a.artifact.Features))
	for _, name := range a.artifact.Features {
		v, ok := feats[name]
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

// extractFeatures считает акустические признаки нормированного сигнала.
func extractFeatures(samples []float64) map[string]float64 {
	zcr := zeroCrossingRate(samples)
	rms := rootMeanSquare(samples)
	rmsDB := 20 * math.Log10(rms+1e-10)

	return map[string]float64{
		"zcr":     zcr,
		"rms":     rms,
		"rms_db":  rmsDB,
		"jitter":  jitter(samples),
		"shimmer": shimmer(samples),
	}
}

// zeroCrossingRate — доля соседних отсчётов с переменой знака.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	var crossings int
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

func rootMeanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// jitter — средняя относительная изменчивость интервалов между
// пересечениями нуля, грубая оценка нестабильности основного тона.
func jitter(samples []float64) float64 {
	var intervals []float64
	last := -1
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			if last >= 0 {
				intervals = append(intervals, float64(i-last))
			}
			last = i
		}
	}
	if len(intervals) < 2 {
		return 0
	}
	var meanInterval, meanDiff float64
	for _, iv := range intervals {
		meanInterval += iv
	}
	meanInterval /= float64(len(intervals))
	for i := 1; i < len(intervals); i++ {
		meanDiff += math.Abs(intervals[i] - intervals[i-1])
	}
	meanDiff /= float64(len(intervals) - 1)
	if meanInterval == 0 {
		return 0
	}
	return meanDiff / meanInterval
}

// shimmer — средняя относительная изменчивость покадровой RMS-амплитуды.
func shimmer(samples []float64) float64 {
	var frames []float64
	for start := 0; start+frameSize <= len(samples); start += frameSize {
		frames = append(frames, rootMeanSquare(samples[start:start+frameSize]))
	}
	if len(frames) < 2 {
		return 0
	}
	var meanRMS, meanDiff float64
	for _, f := range frames {
		meanRMS += f
	}
	meanRMS /= float64(len(frames))
	for i := 1; i < len(frames); i++ {
		meanDiff += math.Abs(frames[i] - frames[i-1])
	}
	meanDiff /= float64(len(frames) - 1)
	if meanRMS == 0 {
		return 0
	}
	return meanDiff / meanRMS
}
