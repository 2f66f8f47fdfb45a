package exam

// State is a step in the exam lifecycle.
type State int

const (
	// Idle means no exam has been started.
	Idle State = iota
	// TaskPresented shows a task and its countdown; recording may start.
	TaskPresented
	// Recording means a capture session is open.
	Recording
	// Recorded holds a finalized answer for the current task.
	Recorded
	// Completed means every task of the variant has been answered.
	Completed
	// NotFound is shown after Start was given an unknown variant.
	NotFound
	// Unavailable means the task catalog failed to load.
	Unavailable
)

var stateNames = map[State]string{
	Idle:          "idle",
	TaskPresented: "task_presented",
	Recording:     "recording",
	Recorded:      "recorded",
	Completed:     "completed",
	NotFound:      "not_found",
	Unavailable:   "unavailable",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Controls is the set of user actions currently allowed.
type Controls struct {
	Record   bool
	Stop     bool
	Play     bool
	Download bool
	Next     bool
}

// ControlsFor derives the allowed actions from a state. Recording again
// from Recorded is not allowed; the user has to advance.
func ControlsFor(s State) Controls {
	switch s {
	case TaskPresented:
		return Controls{Record: true}
	case Recording:
		return Controls{Stop: true}
	case Recorded:
		return Controls{Play: true, Download: true, Next: true}
	default:
		return Controls{}
	}
}

// Any reports whether at least one action is allowed.
func (c Controls) Any() bool {
	return c.Record || c.Stop || c.Play || c.Download || c.Next
}
