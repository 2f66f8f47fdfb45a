package recording

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestFFmpegDevice_Args(t *testing.T) {
	d := &FFmpegDevice{InputFormat: "pulse", Input: "mic", SampleRate: 22050, Channels: 2}
	args := d.args()
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", "pulse", "-i", "mic",
		"-ac", "2", "-ar", "22050",
		"-f", "s16le", "pipe:1",
	}, args)
	assert.Equal(t, PCMFormat{SampleRate: 22050, Channels: 2}, d.Format())
}

func TestFFmpegDevice_Defaults(t *testing.T) {
	d := &FFmpegDevice{}
	assert.Equal(t, PCMFormat{SampleRate: 44100, Channels: 1}, d.Format())
	args := d.args()
	assert.Contains(t, args, DefaultInputFormat())
	assert.Contains(t, args, DefaultInput())
}

func TestFFmpegDevice_CaptureAndStop(t *testing.T) {
	bin := writeScript(t, `printf 'abcdef'; exec sleep 30`)
	d := &FFmpegDevice{Binary: bin, ProbeTimeout: 5 * time.Second}

	src, err := d.Open(context.Background())
	require.NoError(t, err)

	var got bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for f := range src.Fragments() {
			got.Write(f)
		}
	}()

	require.NoError(t, src.Stop())
	<-done
	require.NoError(t, src.Close())
	assert.Equal(t, "abcdef", got.String())
}

func TestFFmpegDevice_EarlyExitIsUnavailable(t *testing.T) {
	bin := writeScript(t, `echo "default: no such audio device" >&2; exit 1`)
	d := &FFmpegDevice{Binary: bin, ProbeTimeout: 5 * time.Second}

	src, err := d.Open(context.Background())
	require.Error(t, err)
	assert.Nil(t, src)
	assert.Contains(t, err.Error(), "no such audio device")
}

func TestFFmpegDevice_MissingBinary(t *testing.T) {
	d := &FFmpegDevice{Binary: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := d.Open(context.Background())
	require.Error(t, err)
}

func TestFFplayPlayer(t *testing.T) {
	out := filepath.Join(t.TempDir(), "played.wav")
	t.Setenv("OGE_TEST_PLAYED", out)
	bin := writeScript(t, `cp "$5" "$OGE_TEST_PLAYED"`)

	p := &FFplayPlayer{Binary: bin, TempDir: t.TempDir()}
	audio := &Captured{Data: EncodeWAV([]byte{1, 2, 3, 4}, 8000, 1), Encoding: WAV}
	require.NoError(t, p.Play(context.Background(), audio))

	played, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, audio.Data, played)
}

func TestFFplayPlayer_Failure(t *testing.T) {
	bin := writeScript(t, `echo "audio device busy" >&2; exit 3`)
	p := &FFplayPlayer{Binary: bin, TempDir: t.TempDir()}

	err := p.Play(context.Background(), &Captured{Data: []byte{1}, Encoding: WAV})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlayback)
	assert.Contains(t, err.Error(), "audio device busy")
}

func TestFFplayPlayer_NothingToPlay(t *testing.T) {
	p := &FFplayPlayer{}
	assert.ErrorIs(t, p.Play(context.Background(), nil), ErrPlayback)
}
