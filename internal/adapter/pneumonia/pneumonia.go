// Package pneumonia реализует адаптер анализа рентгеновских снимков грудной клетки.
//
// Вход — декодируемое изображение PNG или JPEG размером не меньше 150x150.
// Снимок переводится в оттенки серого, усредняется по сетке 8x8 и
// нормализуется делением на 255, после чего оценивается логистическим
// слоем артефакта.
package pneumonia

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	// Регистрация декодеров изображений.
	_ "image/jpeg"
	_ "image/png"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// minSide — минимальная сторона снимка в пикселях.
const minSide = 150

// gridSize — размер сетки усреднения интенсивности.
const gridSize = 8

// Adapter — адаптер изображений с лениво загружаемым артефактом модели.
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
	return models.ModalityPneumonia
}

// Predict декодирует снимок, проверяет разрешение и возвращает метку с уверенностью.
func (a *Adapter) Predict(_ context.Context, input []byte) (*adapter.Result, error) {
	const op = "adapter.pneumonia.Predict"

	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUnsupportedFormat, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() < minSide || bounds.Dy() < minSide {
		return nil, fmt.Errorf("%s: %w: image must be at least %dx%d pixels",
			op, models.ErrUnsupportedFormat, minSide, minSide)
	}

	a.once.Do(func() {
		a.artifact, a.loadErr = adapter.LoadArtifact(a.artifactPath)
	})
	if a.loadErr != nil {
		return nil, fmt.Errorf("%s: %w", op, a.loadErr)
	}

	feats := gridFeatures(img)
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

// gridFeatures делит снимок на сетку gridSize x gridSize и возвращает
// среднюю интенсивность каждой ячейки, нормированную в [0,1].
func gridFeatures(img image.Image) map[string]float64 {
	bounds := img.Bounds()
	cellW := bounds.Dx() / gridSize
	cellH := bounds.Dy() / gridSize

	feats := make(map[string]float64, gridSize*gridSize)
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			x0 := bounds.Min.X + gx*cellW
			y0 := bounds.Min.Y + gy*cellH
			var sum float64
			var count int
			for y := y0; y < y0+cellH; y++ {
				for x := x0; x < x0+cellW; x++ {
					r, g, b, _ := img.At(x, y).RGBA()
					// Яркость по ITU-R BT.601, каналы 16-битные.
					gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
					sum += gray
					count++
				}
			}
			feats[fmt.Sprintf("cell_%d", gy*gridSize+gx)] = sum / float64(count)
		}
	}
	return feats
}
