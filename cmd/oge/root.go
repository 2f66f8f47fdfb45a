package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oge-trainer/oge/internal/projectconfig"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oge",
		Short: "oge - timed oral exam trainer",
		Long: `oge presents the tasks of an oral exam variant one at a time with a
countdown, records your spoken answer from the microphone and lets you play
it back or save it as wav or mp3.

Tasks come from a catalog file (JSON or YAML, local or over http).
Settings are read from .oge.yaml; run "oge init" to create one.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newVariantsCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newConvertCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newSessionCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadProjectConfig reads .oge.yaml starting from the working directory.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	return projectconfig.Load(".")
}
