package recording

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testFormat = PCMFormat{SampleRate: 16000, Channels: 1}

// scriptedSource wires a MockSource to a channel the test feeds; Stop
// closes the channel like a real backend finalizing.
func scriptedSource(ctrl *gomock.Controller, frags chan []byte) *MockSource {
	src := NewMockSource(ctrl)
	src.EXPECT().Fragments().Return((<-chan []byte)(frags))
	src.EXPECT().Stop().DoAndReturn(func() error {
		close(frags)
		return nil
	}).MaxTimes(1)
	return src
}

func TestManager_CaptureConcatenatesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	frags := make(chan []byte, 4)
	src := scriptedSource(ctrl, frags)
	src.EXPECT().Close().Return(nil).Times(1)

	dev := NewMockDevice(ctrl)
	dev.EXPECT().Open(gomock.Any()).Return(src, nil)
	dev.EXPECT().Format().Return(testFormat).AnyTimes()

	m := NewManager(dev, nil)
	require.NoError(t, m.Begin(context.Background()))
	assert.True(t, m.Capturing())

	frags <- []byte{1, 2}
	frags <- []byte{}
	frags <- []byte{3, 4, 5, 6}

	audio, err := m.End(context.Background())
	require.NoError(t, err)
	require.NotNil(t, audio)
	assert.False(t, m.Capturing())

	assert.Equal(t, WAV, audio.Encoding)
	assert.Equal(t, 16000, audio.SampleRate)
	assert.Equal(t, 1, audio.Channels)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, audio.Data[wavHeaderSize:])
}

func TestManager_EmptyCaptureProducesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	frags := make(chan []byte)
	src := scriptedSource(ctrl, frags)
	src.EXPECT().Close().Return(nil)

	dev := NewMockDevice(ctrl)
	dev.EXPECT().Open(gomock.Any()).Return(src, nil)

	m := NewManager(dev, nil)
	require.NoError(t, m.Begin(context.Background()))

	audio, err := m.End(context.Background())
	require.NoError(t, err)
	assert.Nil(t, audio)
	assert.False(t, m.Capturing())
}

func TestManager_DeviceUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := NewMockDevice(ctrl)
	dev.EXPECT().Open(gomock.Any()).Return(nil, errors.New("permission denied"))

	m := NewManager(dev, nil)
	err := m.Begin(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.Contains(t, err.Error(), "permission denied")
	assert.False(t, m.Capturing())

	_, err = m.End(context.Background())
	assert.ErrorIs(t, err, ErrNotCapturing)
}

func TestManager_EndWithoutBegin(t *testing.T) {
	m := NewManager(NewMockDevice(gomock.NewController(t)), nil)
	_, err := m.End(context.Background())
	assert.ErrorIs(t, err, ErrNotCapturing)
}

func TestManager_BeginTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	frags := make(chan []byte)
	src := scriptedSource(ctrl, frags)
	src.EXPECT().Close().Return(nil)

	dev := NewMockDevice(ctrl)
	dev.EXPECT().Open(gomock.Any()).Return(src, nil).Times(1)

	m := NewManager(dev, nil)
	require.NoError(t, m.Begin(context.Background()))
	assert.ErrorIs(t, m.Begin(context.Background()), ErrAlreadyCapturing)

	m.Release()
	assert.False(t, m.Capturing())
}

func TestManager_SequentialSessionsReleaseDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := NewMockDevice(ctrl)
	dev.EXPECT().Format().Return(testFormat).AnyTimes()

	m := NewManager(dev, nil)
	for i := 0; i < 2; i++ {
		frags := make(chan []byte, 1)
		src := scriptedSource(ctrl, frags)
		src.EXPECT().Close().Return(nil).Times(1)
		dev.EXPECT().Open(gomock.Any()).Return(src, nil)

		require.NoError(t, m.Begin(context.Background()))
		frags <- []byte{byte(i), byte(i)}
		audio, err := m.End(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i), byte(i)}, audio.Data[wavHeaderSize:])
	}
}

func TestManager_EndHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	frags := make(chan []byte)
	src := NewMockSource(ctrl)
	src.EXPECT().Fragments().Return((<-chan []byte)(frags))
	// A backend that never finalizes.
	src.EXPECT().Stop().Return(nil)
	src.EXPECT().Close().DoAndReturn(func() error {
		close(frags)
		return nil
	})

	dev := NewMockDevice(ctrl)
	dev.EXPECT().Open(gomock.Any()).Return(src, nil)

	m := NewManager(dev, nil)
	require.NoError(t, m.Begin(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.End(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, m.Capturing())
}

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0xf0, 0xff}
	wav := EncodeWAV(pcm, 44100, 2)

	require.Len(t, wav, wavHeaderSize+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(44100*2*2), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(wav[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "oge_var3_task1.wav", Filename(3, 0, WAV.Ext))
	assert.Equal(t, "oge_var12_task4.mp3", Filename(12, 3, MP3.Ext))
}

func TestCapturedSize(t *testing.T) {
	var c *Captured
	assert.Zero(t, c.Size())
	assert.Equal(t, 3, (&Captured{Data: []byte{1, 2, 3}}).Size())
}
