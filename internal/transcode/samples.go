package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeMono decodes a WAV capture and returns its first channel as samples
// normalized to [-1, 1], together with the sample rate.
func DecodeMono(data []byte) ([]float64, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV stream")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, 0, errors.New("WAV stream has no channels")
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(d.BitDepth)
	}
	if depth != 8 && depth != 16 && depth != 24 && depth != 32 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d", depth)
	}
	return firstChannel(buf, depth), buf.Format.SampleRate, nil
}

func firstChannel(buf *audio.IntBuffer, depth int) []float64 {
	scale := math.Pow(2, float64(depth-1))
	channels := buf.Format.NumChannels
	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		v := float64(buf.Data[i])
		if depth == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}
		samples = append(samples, v/scale)
	}
	return samples
}

// Clamp limits s to the signed normalized range [-1, 1].
func Clamp(s float64) float64 {
	return math.Max(-1, math.Min(1, s))
}

// Quantize clamps each sample and scales it to a signed 16-bit integer:
// negative values by 0x8000, non-negative by 0x7FFF, truncating toward zero.
func Quantize(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		s = Clamp(s)
		if s < 0 {
			out[i] = int16(s * 0x8000)
		} else {
			out[i] = int16(s * 0x7FFF)
		}
	}
	return out
}
