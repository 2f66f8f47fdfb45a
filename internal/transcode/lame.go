package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Encoder is a streaming compressor. Encode may return no output while it
// buffers; Flush returns whatever remains and ends the stream. Close
// releases an encoder that was never flushed and is a no-op after Flush.
type Encoder interface {
	Encode(block []int16) ([]byte, error)
	Flush() ([]byte, error)
	Close() error
}

// EncoderFactory starts an Encoder for the given layout. Cancelling ctx
// aborts the encoder.
type EncoderFactory func(ctx context.Context, sampleRate, channels, bitrateKbps int) (Encoder, error)

// NewLameEncoder returns a factory for MP3 encoders backed by ffmpeg's
// libmp3lame, reading s16le on stdin and writing MP3 on stdout.
func NewLameEncoder(ffmpeg string) EncoderFactory {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return func(ctx context.Context, sampleRate, channels, bitrateKbps int) (Encoder, error) {
		//nolint:gosec // encoder binary is user-configured
		cmd := exec.CommandContext(ctx, ffmpeg,
			"-hide_banner", "-loglevel", "error",
			"-f", "s16le", "-ar", strconv.Itoa(sampleRate), "-ac", strconv.Itoa(channels), "-i", "pipe:0",
			"-codec:a", "libmp3lame", "-b:a", strconv.Itoa(bitrateKbps)+"k",
			"-f", "mp3", "pipe:1",
		)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		e := &lameEncoder{cmd: cmd, stdin: stdin}
		cmd.Stderr = &e.stderr

		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("starting %s: %w", ffmpeg, err)
		}
		e.readers.Go(func() error { return e.drain(stdout) })
		return e, nil
	}
}

type lameEncoder struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  lockedBuffer
	readers errgroup.Group

	mu      sync.Mutex
	pending bytes.Buffer
	flushed bool
}

func (e *lameEncoder) drain(r io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			e.mu.Lock()
			e.pending.Write(buf[:n])
			e.mu.Unlock()
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (e *lameEncoder) take() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending.Len() == 0 {
		return nil
	}
	out := bytes.Clone(e.pending.Bytes())
	e.pending.Reset()
	return out
}

// Encode writes one block and returns any MP3 bytes produced so far.
func (e *lameEncoder) Encode(block []int16) ([]byte, error) {
	if e.flushed {
		return nil, errors.New("encoder already flushed")
	}
	if err := binary.Write(e.stdin, binary.LittleEndian, block); err != nil {
		return nil, fmt.Errorf("writing samples: %w%s", err, e.detail())
	}
	return e.take(), nil
}

// Flush closes the input, waits for the encoder to finish and returns the
// remaining output.
func (e *lameEncoder) Flush() ([]byte, error) {
	if e.flushed {
		return nil, errors.New("encoder already flushed")
	}
	e.flushed = true
	if err := e.stdin.Close(); err != nil {
		return nil, err
	}
	readErr := e.readers.Wait()
	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("encoder exited: %w%s", err, e.detail())
	}
	if readErr != nil {
		return nil, readErr
	}
	return e.take(), nil
}

// Close abandons an unflushed stream: it closes stdin and waits for the
// process and its output reader to exit.
func (e *lameEncoder) Close() error {
	if e.flushed {
		return nil
	}
	e.flushed = true
	_ = e.stdin.Close()
	_ = e.readers.Wait()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder exited: %w%s", err, e.detail())
	}
	return nil
}

func (e *lameEncoder) detail() string {
	if msg := strings.TrimSpace(e.stderr.String()); msg != "" {
		return ": " + msg
	}
	return ""
}

// lockedBuffer collects stderr while the process is still writing to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
