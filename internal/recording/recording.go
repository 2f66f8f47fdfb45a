// Package recording captures a spoken answer from the microphone and
// finalizes it into a single playable, downloadable audio object.
package recording

//go:generate go tool mockgen -source=recording.go -destination=mocks_test.go -package=recording

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDeviceUnavailable means the microphone could not be opened. The
	// caller may retry.
	ErrDeviceUnavailable = errors.New("microphone unavailable")
	// ErrNotCapturing is returned by End when no capture session is open.
	ErrNotCapturing = errors.New("not capturing")
	// ErrAlreadyCapturing is returned by Begin while a capture session is open.
	ErrAlreadyCapturing = errors.New("already capturing")
	// ErrPlayback wraps failures reported by the playback backend.
	ErrPlayback = errors.New("playback failed")
)

// Encoding describes the container of a Captured Audio.
type Encoding struct {
	Ext         string
	ContentType string
}

var (
	// WAV is the raw capture container: 16-bit PCM in RIFF/WAVE.
	WAV = Encoding{Ext: "wav", ContentType: "audio/wav"}
	// MP3 is the transcoded export format.
	MP3 = Encoding{Ext: "mp3", ContentType: "audio/mpeg"}
)

// PCMFormat is the sample layout a Device delivers.
type PCMFormat struct {
	SampleRate int
	Channels   int
}

// Captured is a finalized recording. Its Data is never modified after
// construction; exporters produce new values.
type Captured struct {
	Data       []byte
	Encoding   Encoding
	SampleRate int
	Channels   int
}

// Size returns the length of the encoded data in bytes.
func (c *Captured) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Data)
}

// Filename returns the download name for the answer to a task:
// oge_var<variant>_task<index+1>.<ext>.
func Filename(variantID, taskIndex int, ext string) string {
	return fmt.Sprintf("oge_var%d_task%d.%s", variantID, taskIndex+1, ext)
}

// Device is a microphone that can open capture sessions.
type Device interface {
	// Open starts a capture session. It fails with an error when the device
	// is missing or access is denied.
	Open(ctx context.Context) (Source, error)
	// Format reports the PCM layout of fragments produced by opened sources.
	Format() PCMFormat
}

// Source is one open capture session.
type Source interface {
	// Fragments delivers captured PCM in arrival order. The channel is closed
	// once the session is finalized after Stop; nothing is sent after that.
	Fragments() <-chan []byte
	// Stop asks the capture backend to finish and flush.
	Stop() error
	// Close releases the underlying device. It is safe to call more than once.
	Close() error
}

// Player plays a Captured Audio.
type Player interface {
	Play(ctx context.Context, audio *Captured) error
}
