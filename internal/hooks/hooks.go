// Package hooks runs user-configured commands at exam lifecycle points,
// such as after an answer is exported.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"
)

// Lifecycle point names.
const (
	ExamStart    = "exam_start"
	BeforeTask   = "before_task"
	AfterExport  = "after_export"
	ExamComplete = "exam_complete"
)

// HookConfig defines a single hook command.
type HookConfig struct {
	Command          string `yaml:"command" json:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	ExitCodes        []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail      bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// HooksConfig holds all lifecycle hooks.
type HooksConfig struct {
	ExamStart    []HookConfig `yaml:"exam_start,omitempty" json:"exam_start,omitempty"`
	BeforeTask   []HookConfig `yaml:"before_task,omitempty" json:"before_task,omitempty"`
	AfterExport  []HookConfig `yaml:"after_export,omitempty" json:"after_export,omitempty"`
	ExamComplete []HookConfig `yaml:"exam_complete,omitempty" json:"exam_complete,omitempty"`
}

// For returns the hooks registered for a lifecycle point.
func (c HooksConfig) For(name string) []HookConfig {
	switch name {
	case ExamStart:
		return c.ExamStart
	case BeforeTask:
		return c.BeforeTask
	case AfterExport:
		return c.AfterExport
	case ExamComplete:
		return c.ExamComplete
	}
	return nil
}

// Runner executes hook commands at lifecycle points.
type Runner struct {
	Verbose bool
	// Output receives hook output when Verbose is set. Defaults to os.Stdout.
	Output io.Writer
	Logger *slog.Logger
}

// Execute runs hooks in order. env is added to each command's environment
// as KEY=value pairs. name identifies the lifecycle point for logging and
// error context.
func (r *Runner) Execute(ctx context.Context, name string, hooks []HookConfig, env map[string]string) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		if err := r.runHook(ctx, name, i, h, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) runHook(ctx context.Context, name string, index int, h HookConfig, env map[string]string) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	parts := strings.Fields(h.Command)
	//nolint:gosec // hook commands are user-configured in .oge.yaml, not untrusted input
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)

	if h.WorkingDirectory != "" {
		cmd.Dir = h.WorkingDirectory
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), envPairs(env)...)
	}

	output, err := cmd.CombinedOutput()

	if r.Verbose && len(output) > 0 {
		out := r.Output
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintf(out, "[hook:%s] %s\n", name, strings.TrimRight(string(output), "\n")) //nolint:errcheck
	}

	if err != nil {
		var exitErr *exec.ExitError
		if ok := errors.As(err, &exitErr); ok {
			exitCode := exitErr.ExitCode()

			if !isAcceptableExit(exitCode, h.ExitCodes) {
				if h.ErrorOnFail {
					return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, exitCode)
				}
				r.logger().Warn("Hook exited with unexpected code, continuing", "hook", name, "index", index, "exit_code", exitCode)
			}
		} else {
			// Non-exit error (e.g. command not found)
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, index, err)
			}
			r.logger().Warn("Hook failed, continuing", "hook", name, "index", index, "error", err)
		}
		return nil
	}

	if !isAcceptableExit(0, h.ExitCodes) {
		if h.ErrorOnFail {
			return fmt.Errorf("hook %s[%d]: command exited with code 0 but expected %v", name, index, h.ExitCodes)
		}
		r.logger().Warn("Hook exited with code 0 but other codes were expected, continuing", "hook", name, "index", index, "expected", h.ExitCodes)
	}

	return nil
}

func envPairs(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

// isAcceptableExit checks whether exitCode is in the allowed list.
// An empty allowedCodes list defaults to allowing only exit code 0.
func isAcceptableExit(exitCode int, allowedCodes []int) bool {
	if len(allowedCodes) == 0 {
		return exitCode == 0
	}
	return slices.Contains(allowedCodes, exitCode)
}
