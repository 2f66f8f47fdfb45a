package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Exit codes for different outcomes
const (
	ExitSuccess        = 0 // Exam finished or command succeeded
	ExitExamIncomplete = 1 // The user quit before the last task
	ExitError          = 2 // Configuration or runtime error
)

// IncompleteExamError indicates that the exam ran, but the user left
// before answering every task.
type IncompleteExamError struct {
	VariantID int
	TaskIndex int
	TaskCount int
}

func (e *IncompleteExamError) Error() string {
	return fmt.Sprintf("exam on variant %d left at task %d of %d", e.VariantID, e.TaskIndex+1, e.TaskCount)
}

// reportedError wraps an error the exam view already showed the user, so
// main does not print it a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func alreadyReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var incomplete *IncompleteExamError
	if errors.As(err, &incomplete) {
		return ExitExamIncomplete
	}
	return ExitError
}

func main() {
	// A missing .env is fine; OGE_* variables may come from the shell.
	_ = godotenv.Load()

	if err := execute(); err != nil {
		if alreadyReported(err) {
			slog.Debug("Exiting after reported failure", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}
