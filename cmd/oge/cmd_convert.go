package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oge-trainer/oge/internal/recording"
	"github.com/oge-trainer/oge/internal/spinner"
	"github.com/oge-trainer/oge/internal/transcode"
)

func newConvertCommand() *cobra.Command {
	var (
		output  string
		bitrate int
		ffmpeg  string
	)

	cmd := &cobra.Command{
		Use:   "convert <answer.wav>",
		Short: "Convert a saved wav answer to mp3",
		Long: `Convert a wav answer saved by "oge run" to mp3, using the same encoder
as the mp3 export format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if output == "" {
				output = strings.TrimSuffix(in, filepath.Ext(in)) + ".mp3"
			}
			if ffmpeg == "" {
				cfg, err := loadProjectConfig()
				if err != nil {
					return err
				}
				ffmpeg = cfg.Device.FFmpeg
			}

			options := map[string]any{}
			if cmd.Flags().Changed("bitrate") {
				options["bitrate"] = bitrate
			}
			exporter, err := transcode.New(transcode.FormatMP3, options, ffmpeg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("reading %s: %w", in, err)
			}

			out := cmd.OutOrStdout()
			stop := spinner.Start(out, fmt.Sprintf("Encoding %s…", filepath.Base(in)))
			mp3, err := exporter.Export(cmd.Context(), &recording.Captured{Data: data, Encoding: recording.WAV})
			stop()
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, mp3.Data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			//nolint:errcheck // display-only writes
			if info, err := transcode.InspectMP3(mp3.Data); err != nil || info.Frames == 0 {
				fmt.Fprintf(out, "✓ %s (%d bytes, frames could not be read)\n", output, mp3.Size())
			} else {
				fmt.Fprintf(out, "✓ %s (%d bytes, %d frames, %.1fs)\n", output, mp3.Size(), info.Frames, info.Duration.Seconds())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: input with .mp3)")
	cmd.Flags().IntVar(&bitrate, "bitrate", transcode.DefaultBitrate, "MP3 bitrate in kbit/s")
	cmd.Flags().StringVar(&ffmpeg, "ffmpeg", "", "ffmpeg binary (default from .oge.yaml)")

	return cmd
}
