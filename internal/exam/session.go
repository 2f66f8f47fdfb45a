package exam

import (
	"time"

	"github.com/google/uuid"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/recording"
)

// Session is the state of one exam run. It is created by Start and owned
// by the Controller; nothing else writes to it.
type Session struct {
	ID        uuid.UUID
	VariantID int
	Tasks     []catalog.Task
	TaskIndex int
	Remaining int
	// Audio is the answer to the current task. It is cleared whenever a
	// task is presented or a new recording begins.
	Audio     *recording.Captured
	StartedAt time.Time
	Exported  int
}

func newSession(variantID int, tasks []catalog.Task) *Session {
	return &Session{
		ID:        uuid.New(),
		VariantID: variantID,
		Tasks:     tasks,
		StartedAt: time.Now(),
	}
}

// Current returns the task being answered.
func (s *Session) Current() (catalog.Task, bool) {
	if s == nil || s.TaskIndex < 0 || s.TaskIndex >= len(s.Tasks) {
		return catalog.Task{}, false
	}
	return s.Tasks[s.TaskIndex], true
}

// Snapshot is a read-only copy of the controller's state.
type Snapshot struct {
	State     State
	Controls  Controls
	SessionID string
	VariantID int
	TaskIndex int
	TaskCount int
	Remaining int
	Audio     *recording.Captured
}
