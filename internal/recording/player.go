package recording

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FFplayPlayer plays recordings through ffplay without opening a window.
type FFplayPlayer struct {
	Binary  string
	TempDir string
}

// Play writes audio to a temporary file and plays it to completion. Failures
// wrap ErrPlayback and are not retried.
func (p *FFplayPlayer) Play(ctx context.Context, audio *Captured) error {
	if audio == nil || len(audio.Data) == 0 {
		return fmt.Errorf("%w: nothing to play", ErrPlayback)
	}
	bin := p.Binary
	if bin == "" {
		bin = "ffplay"
	}

	f, err := os.CreateTemp(p.TempDir, "oge-playback-*."+audio.Encoding.Ext)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlayback, err)
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.Write(audio.Data); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("%w: %w", ErrPlayback, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlayback, err)
	}

	//nolint:gosec // player binary is user-configured
	cmd := exec.CommandContext(ctx, bin, "-nodisp", "-autoexit", "-loglevel", "error", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s: %w", ErrPlayback, msg, err)
		}
		return fmt.Errorf("%w: %w", ErrPlayback, err)
	}
	return nil
}
