package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Summary condenses one exam log.
type Summary struct {
	Path      string
	Name      string
	Started   time.Time
	Variant   int
	Tasks     int
	Presented int
	Recorded  int
	TimedOut  int
	Exported  int
	Errors    int
	Completed bool
	Elapsed   time.Duration
}

// Progress renders how far the exam got, e.g. "2/3" or "done".
func (s Summary) Progress() string {
	if s.Completed {
		return "done"
	}
	return fmt.Sprintf("%d/%d", s.Presented, s.Tasks)
}

// Summarize folds events, in log order, into a Summary.
func Summarize(events []Event) Summary {
	var s Summary
	if len(events) == 0 {
		return s
	}
	s.Started = events[0].Timestamp
	s.Elapsed = events[len(events)-1].Timestamp.Sub(s.Started)

	for _, ev := range events {
		switch ev.Type {
		case EventExamStart:
			s.Variant = intField(ev.Data, "variant")
			s.Tasks = intField(ev.Data, "task_count")
		case EventTaskPresented:
			s.Presented = max(s.Presented, intField(ev.Data, "task_num"))
		case EventRecordingStop:
			s.Recorded++
			if forced, _ := ev.Data["forced"].(bool); forced {
				s.TimedOut++
			}
		case EventExport:
			s.Exported++
		case EventError:
			s.Errors++
		case EventExamComplete:
			s.Completed = true
		}
	}
	return s
}

// ListSessions summarizes the exam logs in dir, newest first.
func ListSessions(dir string) ([]Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileSuffix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		events, err := ReadEvents(path)
		if err != nil {
			slog.Debug("Skipping unreadable session log", "path", path, "error", err)
			continue
		}
		s := Summarize(events)
		s.Path, s.Name = path, e.Name()
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].Name > out[j].Name
		}
		return out[i].Started.After(out[j].Started)
	})
	return out, nil
}

// ReadEvents parses an exam log. Lines that are not valid events, such as
// a line cut short by a crash, are skipped.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			slog.Debug("Skipping malformed session line", "path", path, "line", n)
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a summary line followed by one line per event,
// stamped with the time since the exam started.
//
//nolint:errcheck // display-only writes
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	s := Summarize(events)
	status := "not finished"
	if s.Completed {
		status = "completed"
	}
	fmt.Fprintln(w, "EXAM TIMELINE")
	fmt.Fprintf(w, "Variant %d · %d task(s) · %d answer(s) saved · %s · %s\n\n",
		s.Variant, s.Tasks, s.Exported, clock(s.Elapsed), status)

	for _, ev := range events {
		fmt.Fprintf(w, "%s  %s\n", clock(ev.Timestamp.Sub(s.Started)), describe(ev))
	}
}

func describe(ev Event) string {
	d := ev.Data
	switch ev.Type {
	case EventExamStart:
		id, _ := d["session_id"].(string)
		return fmt.Sprintf("Exam started on variant %d (%s)", intField(d, "variant"), id)
	case EventTaskPresented:
		text, _ := d["text"].(string)
		return fmt.Sprintf("Task %d/%d, %s: %s", intField(d, "task_num"), intField(d, "total_tasks"),
			clock(time.Duration(intField(d, "time"))*time.Second), text)
	case EventRecordingStart:
		return "  recording"
	case EventRecordingStop:
		if forced, _ := d["forced"].(bool); forced {
			return fmt.Sprintf("  time is up, %d bytes kept", intField(d, "bytes"))
		}
		return fmt.Sprintf("  stopped, %d bytes", intField(d, "bytes"))
	case EventRecordingEmpty:
		return "  recording produced no audio"
	case EventExport:
		path, _ := d["path"].(string)
		return fmt.Sprintf("  saved %s (%d bytes)", path, intField(d, "bytes"))
	case EventTaskComplete:
		return fmt.Sprintf("Task %d done", intField(d, "task_num"))
	case EventError:
		msg, _ := d["message"].(string)
		return "  error: " + msg
	case EventExamComplete:
		return fmt.Sprintf("Exam complete, %d of %d answer(s) saved", intField(d, "exported"), intField(d, "tasks"))
	}
	return fmt.Sprintf("%s %v", ev.Type, d)
}

// clock renders d as mm:ss.
func clock(d time.Duration) string {
	sec := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// intField reads a number from event data that may have been decoded
// from JSON.
func intField(data map[string]any, key string) int {
	switch n := data[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
