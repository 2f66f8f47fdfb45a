package recording

import (
	"bytes"
	"encoding/binary"
)

const (
	wavHeaderSize  = 44
	bytesPerSample = 2  // s16le
	bitsPerSample  = 16 // s16le
	pcmFormatTag   = 1
)

// EncodeWAV wraps little-endian 16-bit PCM in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))
	byteRate := sampleRate * channels * bytesPerSample

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm))) //nolint:errcheck
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))                      //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(pcmFormatTag))            //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(channels))                //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))              //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))                //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bytesPerSample)) //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))           //nolint:errcheck

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm))) //nolint:errcheck
	buf.Write(pcm)

	return buf.Bytes()
}
