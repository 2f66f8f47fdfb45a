package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oge-trainer/oge/internal/countdown"
	"github.com/oge-trainer/oge/internal/session"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "View exam session logs",
		Long: `View exam session event logs.

Session logs are NDJSON files written by "oge run" when --session-log (or
session_log.enabled in .oge.yaml) is on. They record the exam lifecycle:
tasks presented, recordings, saved answers and completion.`,
	}

	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionViewCommand())

	return cmd
}

func newSessionListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded session logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := loadProjectConfig()
				if err != nil {
					return err
				}
				dir = cfg.SessionLog.Dir
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			sessions, err := session.ListSessions(absDir)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}
			printSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to search for session logs (default from .oge.yaml)")

	return cmd
}

//nolint:errcheck // display-only writes
func printSessions(w io.Writer, sessions []session.Summary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No session logs found.")
		return
	}
	fmt.Fprintf(w, "%-34s %-8s %-9s %-6s %-6s %s\n", "File", "Variant", "Progress", "Saved", "Time", "Started")
	fmt.Fprintln(w, strings.Repeat("─", 34+1+8+1+9+1+6+1+6+1+19))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-34s %-8d %-9s %-6d %-6s %s\n", s.Name, s.Variant, s.Progress(), s.Exported,
			countdown.Format(int(s.Elapsed.Seconds())), s.Started.Local().Format("2006-01-02 15:04:05"))
	}
}

func newSessionViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <session-file>",
		Short: "View a session timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := session.ReadEvents(args[0])
			if err != nil {
				return fmt.Errorf("reading session: %w", err)
			}

			session.RenderTimeline(cmd.OutOrStdout(), events)
			return nil
		},
	}

	return cmd
}
