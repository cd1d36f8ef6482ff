package parkinsons

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// decodeWAV разбирает несжатый PCM WAV (16 бит) и возвращает нормированный
// в [-1,1] моносигнал и частоту дискретизации. Многоканальный сигнал
// сводится усреднением каналов.
func decodeWAV(data []byte) ([]float64, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a RIFF/WAVE file")
	}

	var (
		numChannels   int
		sampleRate    int
		bitsPerSample int
		audioFormat   int
		pcm           []byte
	)

	// Чанки идут подряд: <id:4><size:4><payload:size>, размер выровнен до чётного.
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(data) {
			return nil, 0, errors.New("truncated chunk")
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, errors.New("short fmt chunk")
			}
			audioFormat = int(binary.LittleEndian.Uint16(data[body : body+2]))
			numChannels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+size]
		}
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	if audioFormat != 1 {
		return nil, 0, fmt.Errorf("unsupported audio format %d, only PCM supported", audioFormat)
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d, only 16-bit supported", bitsPerSample)
	}
	if numChannels < 1 || sampleRate <= 0 || pcm == nil {
		return nil, 0, errors.New("missing fmt or data chunk")
	}

	bytesPerFrame := 2 * numChannels
	n := len(pcm) / bytesPerFrame
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for ch := 0; ch < numChannels; ch++ {
			off := i*bytesPerFrame + ch*2
			v := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
			sum += float64(v) / 32768.0
		}
		samples[i] = sum / float64(numChannels)
	}
	return samples, sampleRate, nil
}
