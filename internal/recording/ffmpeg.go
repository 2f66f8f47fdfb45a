package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	fragmentSize        = 4096
	defaultProbeTimeout = 2 * time.Second
)

// DefaultInputFormat returns the ffmpeg capture input for the current platform.
func DefaultInputFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "alsa"
	}
}

// DefaultInput returns the ffmpeg capture device name for the current platform.
func DefaultInput() string {
	switch runtime.GOOS {
	case "darwin":
		return ":0"
	case "windows":
		return "audio=default"
	default:
		return "default"
	}
}

// FFmpegDevice captures the microphone with an ffmpeg subprocess writing raw
// s16le PCM to stdout.
type FFmpegDevice struct {
	Binary      string
	InputFormat string
	Input       string
	SampleRate  int
	Channels    int
	// ProbeTimeout bounds how long Open waits for the first audio before
	// assuming the device is live.
	ProbeTimeout time.Duration
}

// Format implements Device.
func (d *FFmpegDevice) Format() PCMFormat {
	return PCMFormat{SampleRate: d.sampleRate(), Channels: d.channels()}
}

func (d *FFmpegDevice) sampleRate() int {
	if d.SampleRate <= 0 {
		return 44100
	}
	return d.SampleRate
}

func (d *FFmpegDevice) channels() int {
	if d.Channels <= 0 {
		return 1
	}
	return d.Channels
}

func (d *FFmpegDevice) args() []string {
	inputFormat := d.InputFormat
	if inputFormat == "" {
		inputFormat = DefaultInputFormat()
	}
	input := d.Input
	if input == "" {
		input = DefaultInput()
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", inputFormat, "-i", input,
		"-ac", strconv.Itoa(d.channels()),
		"-ar", strconv.Itoa(d.sampleRate()),
		"-f", "s16le", "pipe:1",
	}
}

// Open implements Device. A process that exits before delivering any audio
// is reported as an error carrying ffmpeg's stderr.
func (d *FFmpegDevice) Open(ctx context.Context) (Source, error) {
	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	//nolint:gosec // binary and device come from the user's own configuration
	cmd := exec.Command(bin, d.args()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	s := &ffmpegSource{
		cmd:       cmd,
		fragments: make(chan []byte, 64),
		first:     make(chan struct{}),
		eof:       make(chan struct{}),
	}
	cmd.Stderr = &s.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	s.readers.Go(func() error { return s.read(stdout) })

	probe := d.ProbeTimeout
	if probe <= 0 {
		probe = defaultProbeTimeout
	}
	select {
	case <-s.first:
		return s, nil
	case <-s.eof:
		select {
		case <-s.first:
			return s, nil
		default:
		}
		_ = s.readers.Wait()
		waitErr := cmd.Wait()
		return nil, fmt.Errorf("capture exited before producing audio: %s", s.describe(waitErr))
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	case <-time.After(probe):
		return s, nil
	}
}

type ffmpegSource struct {
	cmd       *exec.Cmd
	stderr    bytes.Buffer
	readers   errgroup.Group
	fragments chan []byte

	firstOnce sync.Once
	first     chan struct{}
	eof       chan struct{}

	stopOnce  sync.Once
	stopErr   error
	closeOnce sync.Once
}

func (s *ffmpegSource) Fragments() <-chan []byte { return s.fragments }

func (s *ffmpegSource) read(r io.Reader) error {
	defer close(s.eof)
	defer close(s.fragments)
	for {
		buf := make([]byte, fragmentSize)
		n, err := r.Read(buf)
		if n > 0 {
			s.firstOnce.Do(func() { close(s.first) })
			s.fragments <- buf[:n]
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Stop interrupts ffmpeg so it flushes, then waits for stdout to drain.
func (s *ffmpegSource) Stop() error {
	s.stopOnce.Do(func() {
		if s.cmd.Process != nil {
			if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
				_ = s.cmd.Process.Kill()
			}
		}
		readErr := s.readers.Wait()
		// ffmpeg exits non-zero when interrupted; only read errors matter here.
		_ = s.cmd.Wait()
		s.stopErr = readErr
	})
	return s.stopErr
}

// Close kills ffmpeg if it is still running and reaps it.
func (s *ffmpegSource) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd.ProcessState == nil && s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		go func() {
			for range s.fragments {
			}
		}()
		_ = s.Stop()
	})
	return nil
}

func (s *ffmpegSource) describe(err error) string {
	msg := strings.TrimSpace(s.stderr.String())
	switch {
	case msg != "":
		return msg
	case err != nil:
		return err.Error()
	default:
		return "no output"
	}
}
