package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/exam"
	"github.com/oge-trainer/oge/internal/hooks"
	"github.com/oge-trainer/oge/internal/projectconfig"
	"github.com/oge-trainer/oge/internal/recording"
	"github.com/oge-trainer/oge/internal/session"
	"github.com/oge-trainer/oge/internal/transcode"
	"github.com/oge-trainer/oge/internal/wizard"
)

type runOptions struct {
	variant    int
	catalog    string
	format     string
	outDir     string
	sessionLog bool
	verbose    bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Take an exam",
		Long: `Take an exam on one variant of the task catalog.

Each task is shown with its countdown. Commands (type the letter, then Enter):
  r  start recording        s  stop recording
  p  play the answer        d  save the answer
  n  next task              q  quit

Recording stops by itself when the countdown reaches 00:00. Saved answers are
named oge_var<variant>_task<n>.<wav|mp3>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, &opts)
			return runExam(cmd, cfg, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.variant, "variant", 0, "Variant to take (default: ask)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "Task catalog path or URL (overrides .oge.yaml)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Export format: wav | mp3 (overrides .oge.yaml)")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Directory for saved answers (overrides .oge.yaml)")
	cmd.Flags().BoolVar(&opts.sessionLog, "session-log", false, "Write an NDJSON exam event log")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show hook output")

	return cmd
}

// applyRunFlags lets explicitly set flags win over file and environment.
func applyRunFlags(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *runOptions) {
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = opts.catalog
	}
	if flags.Changed("format") {
		cfg.Export.Format = strings.ToLower(opts.format)
	}
	if flags.Changed("out") {
		cfg.DownloadsDir = opts.outDir
	}
	if flags.Changed("session-log") {
		cfg.SessionLog.Enabled = &opts.sessionLog
	}
}

func runExam(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *runOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	view := newConsoleView(out)

	exporter, err := transcode.New(cfg.Export.Format, cfg.Export.Options, cfg.Device.FFmpeg)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, catalog.DefaultFetchTimeout)
	cat, loadErr := catalog.Load(loadCtx, cfg.Catalog)
	cancel()
	if loadErr != nil {
		// The controller shows the failure and refuses to start.
		exam.New(exam.Config{View: view})
		return &reportedError{err: loadErr}
	}

	variantID := opts.variant
	if !cmd.Flags().Changed("variant") {
		variantID, err = chooseVariant(cmd.InOrStdin(), in, out, cat)
		if err != nil {
			return err
		}
	}

	events, err := openEventLog(cfg, variantID)
	if err != nil {
		return err
	}
	defer events.Close() //nolint:errcheck

	device := &recording.FFmpegDevice{
		Binary:      cfg.Device.FFmpeg,
		InputFormat: cfg.Device.InputFormat,
		Input:       cfg.Device.Input,
		SampleRate:  cfg.Device.SampleRate,
		Channels:    cfg.Device.Channels,
	}

	ctrl := exam.New(exam.Config{
		Catalog:      cat,
		View:         view,
		Recorder:     recording.NewManager(device, slog.Default()),
		Player:       &recording.FFplayPlayer{Binary: cfg.Player.Binary},
		Exporter:     exporter,
		DownloadsDir: cfg.DownloadsDir,
		Hooks:        cfg.Hooks,
		HookRunner:   &hooks.Runner{Verbose: opts.verbose, Output: out},
		Events:       events,
	})
	defer ctrl.Close() //nolint:errcheck

	if err := ctrl.Start(ctx, variantID); err != nil {
		return err
	}

	if !runConsole(ctx, ctrl, in, out, view) {
		snap := ctrl.Snapshot()
		return &IncompleteExamError{VariantID: snap.VariantID, TaskIndex: snap.TaskIndex, TaskCount: snap.TaskCount}
	}
	return nil
}

// chooseVariant shows the picker on a terminal and reads a plain line
// otherwise, so piped input keeps working for the command loop.
func chooseVariant(raw io.Reader, in *bufio.Reader, out io.Writer, cat *catalog.Catalog) (int, error) {
	if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return wizard.PickVariant(f, out, cat)
	}

	fmt.Fprintf(out, "Variant (%s): ", joinIDs(cat.IDs())) //nolint:errcheck
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("reading variant: %w", err)
	}
	return wizard.ParseVariant(line, cat)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

func openEventLog(cfg *projectconfig.ProjectConfig, variantID int) (session.Logger, error) {
	if !cfg.SessionLogEnabled() {
		return session.NopLogger{}, nil
	}
	logger, err := session.NewJSONLogger(session.LogPath(cfg.SessionLog.Dir, variantID, time.Now()))
	if err != nil {
		return nil, err
	}
	slog.Debug("Writing session log", "path", logger.Path())
	return logger, nil
}
