package recording

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Manager owns at most one capture session at a time and turns the
// fragments it collects into a Captured Audio.
type Manager struct {
	device Device
	logger *slog.Logger

	mu        sync.Mutex
	src       Source
	collected chan [][]byte
}

// NewManager creates a Manager for device. A nil logger selects slog.Default().
func NewManager(device Device, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{device: device, logger: logger}
}

// Capturing reports whether a capture session is open.
func (m *Manager) Capturing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collected != nil
}

// Begin opens a new capture session, releasing any previously held one
// first. A device failure wraps ErrDeviceUnavailable and leaves the
// Manager idle.
func (m *Manager) Begin(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collected != nil {
		return ErrAlreadyCapturing
	}
	m.releaseLocked()

	src, err := m.device.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	m.src = src

	collected := make(chan [][]byte, 1)
	m.collected = collected
	go collect(src.Fragments(), collected)

	m.logger.Debug("Capture started")
	return nil
}

// collect stores fragments in delivery order until the source finalizes.
func collect(fragments <-chan []byte, out chan<- [][]byte) {
	var frags [][]byte
	for f := range fragments {
		if len(f) > 0 {
			frags = append(frags, f)
		}
	}
	out <- frags
}

// End stops the open capture session, waits for it to finalize and releases
// the device. When no audio was delivered it returns (nil, nil) and logs a
// warning; otherwise the fragments are concatenated in arrival order into a
// WAV Captured Audio.
func (m *Manager) End(ctx context.Context) (*Captured, error) {
	m.mu.Lock()
	src, collected := m.src, m.collected
	if collected == nil {
		m.mu.Unlock()
		return nil, ErrNotCapturing
	}
	m.collected = nil
	m.mu.Unlock()

	if err := src.Stop(); err != nil {
		m.logger.Debug("Capture stop reported an error", "error", err)
	}

	var frags [][]byte
	select {
	case frags = <-collected:
	case <-ctx.Done():
		m.release(src)
		return nil, fmt.Errorf("waiting for capture to finalize: %w", ctx.Err())
	}
	m.release(src)

	if len(frags) == 0 {
		m.logger.Warn("No audio data captured; nothing to play back")
		return nil, nil
	}

	pcm := bytes.Join(frags, nil)
	format := m.device.Format()
	m.logger.Debug("Capture finalized", "fragments", len(frags), "pcm_bytes", len(pcm))

	return &Captured{
		Data:       EncodeWAV(pcm, format.SampleRate, format.Channels),
		Encoding:   WAV,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}

// Release abandons any open capture session and frees the device.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collected != nil && m.src != nil {
		_ = m.src.Stop()
	}
	m.collected = nil
	m.releaseLocked()
}

func (m *Manager) release(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.src == src {
		m.releaseLocked()
	}
}

func (m *Manager) releaseLocked() {
	if m.src == nil {
		return
	}
	if err := m.src.Close(); err != nil {
		m.logger.Debug("Releasing capture device failed", "error", err)
	}
	m.src = nil
}
