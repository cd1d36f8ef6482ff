package parkinsons

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// buildWAV собирает несжатый PCM WAV 16 бит с синусоидой 220 Гц.
func buildWAV(t *testing.T, sampleRate int, duration float64, channels int) []byte {
	t.Helper()

	n := int(float64(sampleRate) * duration)
	pcm := make([]byte, 0, n*2*channels)
	for i := 0; i < n; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(v))
		}
	}

	var buf []byte
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2*channels))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(2*channels))
	buf = binary.LittleEndian.AppendUint16(buf, 16)

	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}

func writeTestArtifact(t *testing.T) string {
	t.Helper()

	artifact := adapter.Artifact{
		Features: []string{"zcr", "rms", "rms_db", "jitter", "shimmer"},
		Mean:     []float64{0.02, 0.2, -14, 0.1, 0.05},
		Std:      []float64{0.01, 0.1, 6, 0.1, 0.05},
		Weights:  []float64{0.4, -0.3, 0.2, 0.8, 0.6},
		Bias:     -0.1,
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "parkinsons.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestAdapter_Modality(t *testing.T) {
	a := New("unused.json")
	assert.Equal(t, models.ModalityParkinsons, a.Modality())
}

func TestAdapter_Predict_ValidAudio(t *testing.T) {
	a := New(writeTestArtifact(t))

	wav := buildWAV(t, 16000, 6.0, 1)
	res, err := a.Predict(context.Background(), wav)
	require.NoError(t, err)

	assert.Contains(t, []string{adapter.LabelPositive, adapter.LabelNegative}, res.Label)
	assert.GreaterOrEqual(t, res.Confidence, 0.5)
	assert.LessOrEqual(t, res.Confidence, 1.0)
}

func TestAdapter_Predict_StereoAveragedToMono(t *testing.T) {
	a := New(writeTestArtifact(t))

	wav := buildWAV(t, 16000, 6.0, 2)
	_, err := a.Predict(context.Background(), wav)
	assert.NoError(t, err)
}

func TestAdapter_Predict_RejectedAudio(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"слишком короткая запись", nil}, // заполняется ниже
		{"не WAV", []byte("definitely not audio")},
		{"пустой вход", []byte{}},
	}
	tests[0].input = buildWAV(t, 16000, 2.0, 1)

	// Артефакт не нужен: вход отклоняется до загрузки модели.
	a := New(filepath.Join(t.TempDir(), "missing.json"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Predict(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
		})
	}
}

func TestDecodeWAV_Truncated(t *testing.T) {
	wav := buildWAV(t, 16000, 1.0, 1)

	_, _, err := decodeWAV(wav[:len(wav)-100])
	assert.Error(t, err)
}

func TestExtractFeatures(t *testing.T) {
	samples, sampleRate, err := decodeWAV(buildWAV(t, 16000, 6.0, 1))
	require.NoError(t, err)
	assert.Equal(t, 16000, sampleRate)

	feats := extractFeatures(samples)
	for _, name := range []string{"zcr", "rms", "rms_db", "jitter", "shimmer"} {
		_, ok := feats[name]
		assert.True(t, ok, "отсутствует признак %s", name)
	}

	// Для чистой синусоиды 220 Гц при 16 кГц — два пересечения нуля на период.
	assert.InDelta(t, 2*220.0/16000.0, feats["zcr"], 0.005)
	assert.Greater(t, feats["rms"], 0.0)
}
