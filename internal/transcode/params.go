package transcode

import (
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultBitrate is the MP3 bitrate in kbit/s when none is configured.
const DefaultBitrate = 128

// validBitrates are the MPEG-1 Layer III bitrates LAME accepts for CBR.
var validBitrates = []int{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}

// Params holds the mapstructure-decoded export options for MP3.
type Params struct {
	Bitrate int `mapstructure:"bitrate"`
}

func (p Params) bitrate() int {
	if p.Bitrate == 0 {
		return DefaultBitrate
	}
	return p.Bitrate
}

// DecodeParams decodes export options. Unknown keys are rejected.
func DecodeParams(options map[string]any) (Params, error) {
	var p Params
	if len(options) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &p,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Params{}, err
		}
		if err := dec.Decode(options); err != nil {
			return Params{}, fmt.Errorf("invalid export options: %w", err)
		}
	}
	if p.Bitrate != 0 && !slices.Contains(validBitrates, p.Bitrate) {
		return Params{}, fmt.Errorf("invalid export options: unsupported MP3 bitrate %d kbit/s", p.Bitrate)
	}
	return p, nil
}
