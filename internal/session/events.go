package session

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventExamStart      EventType = "exam_start"
	EventTaskPresented  EventType = "task_presented"
	EventRecordingStart EventType = "recording_start"
	EventRecordingStop  EventType = "recording_stop"
	EventRecordingEmpty EventType = "recording_empty"
	EventExport         EventType = "export"
	EventTaskComplete   EventType = "task_complete"
	EventExamComplete   EventType = "exam_complete"
	EventError          EventType = "error"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// ExamStartData returns event data for an exam start.
func ExamStartData(sessionID string, variantID, taskCount int) map[string]any {
	return map[string]any{
		"session_id": sessionID,
		"variant":    variantID,
		"task_count": taskCount,
	}
}

// TaskPresentedData returns event data for a task being shown.
func TaskPresentedData(taskNum, totalTasks int, text string, seconds int) map[string]any {
	return map[string]any{
		"task_num":    taskNum,
		"total_tasks": totalTasks,
		"text":        text,
		"time":        seconds,
	}
}

// RecordingStopData returns event data for a finalized recording.
// forced is true when the countdown ran out.
func RecordingStopData(taskNum, bytes int, forced bool) map[string]any {
	return map[string]any{
		"task_num": taskNum,
		"bytes":    bytes,
		"forced":   forced,
	}
}

// ExportData returns event data for an exported answer.
func ExportData(taskNum int, path, format string, bytes int, durationMs int64) map[string]any {
	return map[string]any{
		"task_num":    taskNum,
		"path":        path,
		"format":      format,
		"bytes":       bytes,
		"duration_ms": durationMs,
	}
}

// TaskData returns event data carrying only the 1-based task number.
func TaskData(taskNum int) map[string]any {
	return map[string]any{
		"task_num": taskNum,
	}
}

// ExamCompleteData returns event data for a finished exam.
func ExamCompleteData(variantID, tasks, exported int, durationMs int64) map[string]any {
	return map[string]any{
		"variant":     variantID,
		"tasks":       tasks,
		"exported":    exported,
		"duration_ms": durationMs,
	}
}

// ErrorData returns event data for an error.
func ErrorData(message string, details map[string]any) map[string]any {
	d := map[string]any{
		"message": message,
	}
	for k, v := range details {
		d[k] = v
	}
	return d
}
