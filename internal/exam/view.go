package exam

//go:generate go tool mockgen -source=view.go -destination=mocks_test.go -package=exam

import (
	"context"

	"github.com/oge-trainer/oge/internal/recording"
)

// View is the rendering surface the Controller drives. Implementations must
// be safe to call from the countdown goroutine.
type View interface {
	// Task shows the prompt of task index (0-based) out of total.
	Task(text string, index, total int)
	// Timer shows the countdown as mm:ss.
	Timer(display string)
	// Controls enables and disables the user actions.
	Controls(c Controls)
	// Message shows a status line.
	Message(msg string)
	// Warn shows a recoverable problem to the user.
	Warn(msg string)
}

// Recorder is the capture side of the exam. *recording.Manager implements it.
type Recorder interface {
	Begin(ctx context.Context) error
	End(ctx context.Context) (*recording.Captured, error)
	Release()
}
