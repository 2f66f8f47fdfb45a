// Package transcode exports a captured answer either unchanged or converted
// to MP3 through a streaming encoder.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oge-trainer/oge/internal/recording"
)

// BlockSize is the number of samples fed to the encoder per call, one MPEG
// Layer III frame.
const BlockSize = 1152

// Export formats.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// ErrTranscode wraps every decode or encode failure.
var ErrTranscode = errors.New("transcoding failed")

// Exporter turns a Captured Audio into the bytes offered for download. It
// never modifies its input.
type Exporter interface {
	Export(ctx context.Context, audio *recording.Captured) (*recording.Captured, error)
	// Encoding is the container the exporter produces.
	Encoding() recording.Encoding
}

// New returns the exporter for format. options are the free-form
// export.options from configuration; ffmpeg is the encoder binary.
func New(format string, options map[string]any, ffmpeg string) (Exporter, error) {
	switch format {
	case "", FormatWAV:
		return Passthrough{}, nil
	case FormatMP3:
		params, err := DecodeParams(options)
		if err != nil {
			return nil, err
		}
		return &MP3Exporter{Params: params, NewEncoder: NewLameEncoder(ffmpeg)}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want %s or %s)", format, FormatWAV, FormatMP3)
	}
}

// Passthrough offers the captured bytes as they are.
type Passthrough struct{}

// Encoding implements Exporter.
func (Passthrough) Encoding() recording.Encoding { return recording.WAV }

// Export implements Exporter.
func (Passthrough) Export(_ context.Context, audio *recording.Captured) (*recording.Captured, error) {
	if audio == nil {
		return nil, fmt.Errorf("%w: no recording", ErrTranscode)
	}
	out := *audio
	return &out, nil
}

// MP3Exporter decodes the capture to mono samples and streams them through
// an MP3 encoder in BlockSize chunks.
type MP3Exporter struct {
	Params     Params
	NewEncoder EncoderFactory
	Logger     *slog.Logger
}

// Encoding implements Exporter.
func (e *MP3Exporter) Encoding() recording.Encoding { return recording.MP3 }

// Export implements Exporter.
func (e *MP3Exporter) Export(ctx context.Context, audio *recording.Captured) (*recording.Captured, error) {
	if audio == nil {
		return nil, fmt.Errorf("%w: no recording", ErrTranscode)
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	samples, sampleRate, err := DecodeMono(audio.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding capture: %w", ErrTranscode, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: capture contains no samples", ErrTranscode)
	}
	pcm := Quantize(samples)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc, err := e.NewEncoder(ctx, sampleRate, 1, e.Params.bitrate())
	if err != nil {
		return nil, fmt.Errorf("%w: starting encoder: %w", ErrTranscode, err)
	}
	defer enc.Close() //nolint:errcheck

	var chunks [][]byte
	for i := 0; i < len(pcm); i += BlockSize {
		end := min(i+BlockSize, len(pcm))
		out, err := enc.Encode(pcm[i:end])
		if err != nil {
			return nil, fmt.Errorf("%w: encoding block %d: %w", ErrTranscode, i/BlockSize, err)
		}
		if len(out) > 0 {
			chunks = append(chunks, out)
		}
	}
	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("%w: flushing encoder: %w", ErrTranscode, err)
	}
	if len(tail) > 0 {
		chunks = append(chunks, tail)
	}

	data := bytes.Join(chunks, nil)
	logger.Debug("Transcoded capture", "samples", len(pcm), "sample_rate", sampleRate,
		"chunks", len(chunks), "bytes", len(data))

	return &recording.Captured{
		Data:       data,
		Encoding:   recording.MP3,
		SampleRate: sampleRate,
		Channels:   1,
	}, nil
}
