package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/oge-trainer/oge/internal/exam"
	"github.com/oge-trainer/oge/internal/spinner"
)

// consoleView renders the exam as lines of text. The countdown rewrites
// its own line until something else is printed.
type consoleView struct {
	mu     sync.Mutex
	out    io.Writer
	inline bool
}

func newConsoleView(out io.Writer) *consoleView {
	return &consoleView{out: out}
}

//nolint:errcheck // display-only writes
func (v *consoleView) println(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inline {
		fmt.Fprintln(v.out)
		v.inline = false
	}
	fmt.Fprintf(v.out, format+"\n", args...)
}

func (v *consoleView) Task(text string, index, total int) {
	v.println("\n── Task %d/%d ──\n%s", index+1, total, text)
}

//nolint:errcheck // display-only writes
func (v *consoleView) Timer(display string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "\r⏱  %s ", display)
	v.inline = true
}

func (v *consoleView) Controls(c exam.Controls) {
	if hint := controlsHint(c); hint != "" {
		v.println("%s", hint)
	}
}

func (v *consoleView) Message(msg string) {
	v.println("%s", msg)
}

func (v *consoleView) Warn(msg string) {
	v.println("⚠️  %s", msg)
}

func controlsHint(c exam.Controls) string {
	var parts []string
	if c.Record {
		parts = append(parts, "[r] record")
	}
	if c.Stop {
		parts = append(parts, "[s] stop")
	}
	if c.Play {
		parts = append(parts, "[p] play")
	}
	if c.Download {
		parts = append(parts, "[d] download")
	}
	if c.Next {
		parts = append(parts, "[n] next")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append(parts, "[q] quit"), "  ")
}

// examActions is the part of *exam.Controller the console drives.
type examActions interface {
	BeginRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	Play(ctx context.Context) error
	Download(ctx context.Context) (string, error)
	Advance(ctx context.Context) error
	State() exam.State
}

// runConsole reads single-letter commands from in until the exam is
// completed, the user quits or ctx is done. It reports whether the exam
// was completed.
func runConsole(ctx context.Context, ctrl examActions, in io.Reader, out io.Writer, view *consoleView) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if ctrl.State() == exam.Completed {
			return true
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return false
		case line, ok = <-lines:
			if !ok {
				return ctrl.State() == exam.Completed
			}
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "r", "record":
			err = ctrl.BeginRecording(ctx)
			if err == nil {
				view.Message("● recording… press s to stop")
			}
		case "s", "stop":
			err = ctrl.StopRecording(ctx)
		case "p", "play":
			err = ctrl.Play(ctx)
		case "d", "download":
			stop := spinner.Start(out, "Saving answer…")
			_, err = ctrl.Download(ctx)
			stop()
		case "n", "next":
			err = ctrl.Advance(ctx)
		case "q", "quit":
			return ctrl.State() == exam.Completed
		default:
			view.Message("unknown command; use r, s, p, d, n or q")
			continue
		}

		if errors.Is(err, exam.ErrInvalidTransition) {
			view.Message("not available now")
		}
	}
}
