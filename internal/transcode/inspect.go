package transcode

import (
	"bytes"
	"io"
	"time"

	"github.com/tcolgate/mp3"
)

// MP3Info summarizes an encoded MP3 stream.
type MP3Info struct {
	Frames   int
	Skipped  int
	Duration time.Duration
}

// InspectMP3 walks the MPEG frames in data and sums their durations.
func InspectMP3(data []byte) (MP3Info, error) {
	d := mp3.NewDecoder(bytes.NewReader(data))
	var (
		info    MP3Info
		frame   mp3.Frame
		skipped int
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return info, err
		}
		info.Frames++
		info.Skipped += skipped
		info.Duration += frame.Duration()
	}
	return info, nil
}
