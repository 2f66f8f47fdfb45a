// Package exam drives a timed oral exam: it presents the tasks of a
// variant one at a time, counts down the time allotted to each, records
// one answer per task and lets the user play back or save it.
package exam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/countdown"
	"github.com/oge-trainer/oge/internal/hooks"
	"github.com/oge-trainer/oge/internal/recording"
	"github.com/oge-trainer/oge/internal/session"
	"github.com/oge-trainer/oge/internal/transcode"
)

var (
	// ErrVariantNotFound is returned by Start for an id missing from the catalog.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("action not allowed now")
	// ErrNoRecording is returned by Play and Download when there is no answer.
	ErrNoRecording = errors.New("no recording")
)

// User-facing messages.
const (
	MsgCatalogUnavailable = "failed to load tasks"
	MsgVariantNotFound    = "variant not found"
	MsgFinished           = "exam finished"
	MsgDeviceUnavailable  = "microphone unavailable"
	MsgRecordFirst        = "record an answer first"
	MsgNothingToSave      = "nothing to save"
	MsgTimeUp             = "time is up"
)

// finalizeTimeout bounds how long a countdown-forced stop waits for the
// capture to finalize.
const finalizeTimeout = 10 * time.Second

// Config wires a Controller to its collaborators. Catalog nil means the
// catalog failed to load; the Controller then refuses to start an exam.
type Config struct {
	Catalog  *catalog.Catalog
	View     View
	Recorder Recorder
	Player   recording.Player
	Exporter transcode.Exporter
	// DownloadsDir receives exported answers. Empty means the working directory.
	DownloadsDir string
	// Ticker overrides the countdown tick source.
	Ticker countdown.TickerFunc
	Hooks  hooks.HooksConfig
	// HookRunner runs Hooks. Nil disables hooks.
	HookRunner *hooks.Runner
	// Events receives the session log. Nil discards events.
	Events session.Logger
	Logger *slog.Logger
}

// Controller is the exam state machine. All methods are safe for
// concurrent use; the countdown runs on its own goroutine.
type Controller struct {
	cfg    Config
	view   View
	events session.Logger
	logger *slog.Logger
	timer  *countdown.Timer

	mu    sync.Mutex
	state State
	sess  *Session
	// epoch identifies the live countdown. Ticks from an older arm are ignored.
	epoch uint64
}

// New creates a Controller in Idle, or in Unavailable when cfg.Catalog is nil.
func New(cfg Config) *Controller {
	c := &Controller{
		cfg:    cfg,
		view:   cfg.View,
		events: cfg.Events,
		logger: cfg.Logger,
		timer:  countdown.New(cfg.Ticker),
	}
	if c.view == nil {
		c.view = nopView{}
	}
	if c.events == nil {
		c.events = session.NopLogger{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if cfg.Exporter == nil {
		c.cfg.Exporter = transcode.Passthrough{}
	}

	if cfg.Catalog == nil {
		c.state = Unavailable
		c.view.Message(MsgCatalogUnavailable)
	}
	c.view.Controls(ControlsFor(c.state))
	return c
}

// Start begins an exam on variant id. An unknown id leaves any running
// exam untouched and returns ErrVariantNotFound. A variant without tasks
// is finished immediately.
func (c *Controller) Start(ctx context.Context, variantID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Catalog == nil {
		c.view.Message(MsgCatalogUnavailable)
		return catalog.ErrCatalogUnavailable
	}

	tasks, ok := c.cfg.Catalog.Lookup(variantID)
	if !ok {
		c.view.Message(MsgVariantNotFound)
		if c.sess == nil {
			c.setStateLocked(NotFound)
		}
		return fmt.Errorf("%w: %d", ErrVariantNotFound, variantID)
	}

	c.stopSessionLocked()
	c.sess = newSession(variantID, tasks)
	c.logger.Debug("Exam started", "session", c.sess.ID, "variant", variantID, "tasks", len(tasks))
	c.logEvent(session.EventExamStart, session.ExamStartData(c.sess.ID.String(), variantID, len(tasks)))
	c.runHooks(ctx, hooks.ExamStart)

	if len(tasks) == 0 {
		c.completeLocked(ctx)
		return nil
	}
	c.presentLocked(ctx)
	return nil
}

// BeginRecording opens the microphone for the current task. A device
// failure wraps recording.ErrDeviceUnavailable and leaves the task
// presented so the user can retry.
func (c *Controller) BeginRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != TaskPresented {
		return c.invalidLocked("record")
	}

	c.sess.Audio = nil
	if err := c.cfg.Recorder.Begin(ctx); err != nil {
		c.view.Warn(MsgDeviceUnavailable)
		c.logger.Error("Failed to open microphone", "error", err)
		c.logEvent(session.EventError, session.ErrorData(err.Error(), session.TaskData(c.sess.TaskIndex+1)))
		if !errors.Is(err, recording.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", recording.ErrDeviceUnavailable, err)
		}
		return err
	}

	c.setStateLocked(Recording)
	c.logEvent(session.EventRecordingStart, session.TaskData(c.sess.TaskIndex+1))
	return nil
}

// StopRecording ends the capture and waits for it to finalize. It also
// stops the countdown. An empty capture returns to TaskPresented without
// surfacing an error.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Recording {
		return c.invalidLocked("stop")
	}

	c.cancelTimerLocked()
	return c.finishRecordingLocked(ctx, false)
}

// finishRecordingLocked is shared by explicit stop and countdown expiry.
func (c *Controller) finishRecordingLocked(ctx context.Context, forced bool) error {
	taskNum := c.sess.TaskIndex + 1

	audio, err := c.cfg.Recorder.End(ctx)
	if err != nil {
		c.logger.Error("Failed to finalize recording", "error", err)
		c.logEvent(session.EventError, session.ErrorData(err.Error(), session.TaskData(taskNum)))
		c.view.Warn(err.Error())
		c.setStateLocked(TaskPresented)
		return err
	}

	if audio == nil {
		c.logEvent(session.EventRecordingEmpty, session.TaskData(taskNum))
		c.setStateLocked(TaskPresented)
		return nil
	}

	c.sess.Audio = audio
	c.logger.Debug("Recording finalized", "task", taskNum, "bytes", audio.Size(), "forced", forced)
	c.logEvent(session.EventRecordingStop, session.RecordingStopData(taskNum, audio.Size(), forced))
	c.setStateLocked(Recorded)
	return nil
}

// Play plays back the current answer. Player errors are returned as is.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	if c.sess == nil || c.sess.Audio == nil {
		c.mu.Unlock()
		c.view.Warn(MsgRecordFirst)
		return ErrNoRecording
	}
	if c.state != Recorded {
		defer c.mu.Unlock()
		return c.invalidLocked("play")
	}
	audio := c.sess.Audio
	c.mu.Unlock()

	if c.cfg.Player == nil {
		return fmt.Errorf("%w: no player configured", recording.ErrPlayback)
	}
	if err := c.cfg.Player.Play(ctx, audio); err != nil {
		c.view.Warn(err.Error())
		return err
	}
	return nil
}

// Download exports the current answer and writes it into the downloads
// directory as oge_var<id>_task<n>.<ext>. The held answer is never
// modified, so a failed export can be retried.
func (c *Controller) Download(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil || c.sess.Audio == nil {
		c.view.Warn(MsgNothingToSave)
		return "", ErrNoRecording
	}
	if c.state != Recorded {
		return "", c.invalidLocked("download")
	}

	taskNum := c.sess.TaskIndex + 1
	started := time.Now()

	out, err := c.cfg.Exporter.Export(ctx, c.sess.Audio)
	if err != nil {
		c.view.Warn(err.Error())
		c.logEvent(session.EventError, session.ErrorData(err.Error(), session.TaskData(taskNum)))
		return "", err
	}

	path := filepath.Join(c.cfg.DownloadsDir, recording.Filename(c.sess.VariantID, c.sess.TaskIndex, out.Encoding.Ext))
	if err := writeFile(path, out.Data); err != nil {
		c.view.Warn(err.Error())
		c.logEvent(session.EventError, session.ErrorData(err.Error(), session.TaskData(taskNum)))
		return "", err
	}

	c.sess.Exported++
	c.logger.Debug("Answer exported", "path", path, "bytes", out.Size(), "format", out.Encoding.Ext)
	c.logEvent(session.EventExport, session.ExportData(taskNum, path, out.Encoding.Ext, out.Size(), time.Since(started).Milliseconds()))
	c.view.Message(fmt.Sprintf("saved %s", path))
	c.runHooks(ctx, hooks.AfterExport, "OGE_EXPORT_PATH", path)
	return path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating downloads directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Advance moves to the next task, or finishes the exam after the last one.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Recorded {
		return c.invalidLocked("next")
	}

	c.logEvent(session.EventTaskComplete, session.TaskData(c.sess.TaskIndex+1))
	c.sess.TaskIndex++
	if c.sess.TaskIndex >= len(c.sess.Tasks) {
		c.completeLocked(ctx)
		return nil
	}
	c.presentLocked(ctx)
	return nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Controls returns the actions allowed in the current state.
func (c *Controller) Controls() Controls {
	return ControlsFor(c.State())
}

// Snapshot returns a copy of the current state and session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state, Controls: ControlsFor(c.state)}
	if s := c.sess; s != nil {
		snap.SessionID = s.ID.String()
		snap.VariantID = s.VariantID
		snap.TaskIndex = s.TaskIndex
		snap.TaskCount = len(s.Tasks)
		snap.Remaining = s.Remaining
		snap.Audio = s.Audio
	}
	return snap
}

// Close cancels the countdown and releases the microphone.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSessionLocked()
	return nil
}

func (c *Controller) presentLocked(ctx context.Context) {
	task, _ := c.sess.Current()
	c.sess.Remaining = task.Time
	c.sess.Audio = nil

	total := len(c.sess.Tasks)
	c.view.Task(task.Text, c.sess.TaskIndex, total)
	c.view.Timer(countdown.Format(c.sess.Remaining))
	c.setStateLocked(TaskPresented)
	c.logEvent(session.EventTaskPresented, session.TaskPresentedData(c.sess.TaskIndex+1, total, task.Text, task.Time))
	c.armLocked()
	c.runHooks(ctx, hooks.BeforeTask)
}

func (c *Controller) completeLocked(ctx context.Context) {
	c.cancelTimerLocked()
	c.sess.Remaining = 0
	c.sess.Audio = nil
	c.view.Message(MsgFinished)
	c.view.Timer(countdown.Format(0))
	c.setStateLocked(Completed)
	c.logEvent(session.EventExamComplete, session.ExamCompleteData(
		c.sess.VariantID, len(c.sess.Tasks), c.sess.Exported, time.Since(c.sess.StartedAt).Milliseconds()))
	c.runHooks(ctx, hooks.ExamComplete)
}

func (c *Controller) armLocked() {
	c.epoch++
	epoch := c.epoch
	c.timer.Arm(func() bool { return c.tick(epoch) })
}

func (c *Controller) cancelTimerLocked() {
	c.epoch++
	c.timer.Cancel()
}

// tick handles one countdown step. It returns false to end the tick loop.
func (c *Controller) tick(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || c.sess == nil {
		return false
	}

	c.sess.Remaining--
	if c.sess.Remaining > 0 {
		c.view.Timer(countdown.Format(c.sess.Remaining))
		return true
	}

	c.sess.Remaining = 0
	c.view.Timer(countdown.Format(0))
	c.epoch++

	if c.state == Recording {
		c.view.Message(MsgTimeUp)
		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		defer cancel()
		_ = c.finishRecordingLocked(ctx, true)
	}
	return false
}

// stopSessionLocked discards the running exam, if any.
func (c *Controller) stopSessionLocked() {
	c.cancelTimerLocked()
	if c.state == Recording {
		c.cfg.Recorder.Release()
	}
	if c.sess != nil {
		c.sess.Audio = nil
	}
}

func (c *Controller) setStateLocked(s State) {
	if c.state != s {
		c.logger.Debug("Exam state changed", "from", c.state, "to", s)
	}
	c.state = s
	c.view.Controls(ControlsFor(s))
}

func (c *Controller) invalidLocked(action string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, action, c.state)
}

func (c *Controller) logEvent(t session.EventType, data map[string]any) {
	if err := c.events.Log(session.NewEvent(t, data)); err != nil {
		c.logger.Warn("Failed to write session event", "type", t, "error", err)
	}
}

// runHooks executes the hooks of a lifecycle point. Hook failures are
// reported but never fail the exam action. extra holds key/value pairs
// added to the hook environment.
func (c *Controller) runHooks(ctx context.Context, point string, extra ...string) {
	if c.cfg.HookRunner == nil || c.sess == nil {
		return
	}
	hs := c.cfg.Hooks.For(point)
	if len(hs) == 0 {
		return
	}

	env := map[string]string{
		"OGE_SESSION": c.sess.ID.String(),
		"OGE_VARIANT": strconv.Itoa(c.sess.VariantID),
		"OGE_TASK":    strconv.Itoa(min(c.sess.TaskIndex+1, len(c.sess.Tasks))),
	}
	for i := 0; i+1 < len(extra); i += 2 {
		env[extra[i]] = extra[i+1]
	}

	if err := c.cfg.HookRunner.Execute(ctx, point, hs, env); err != nil {
		c.logger.Warn("Hook failed", "hook", point, "error", err)
		c.view.Warn(err.Error())
	}
}

type nopView struct{}

func (nopView) Task(string, int, int) {}
func (nopView) Timer(string)          {}
func (nopView) Controls(Controls)     {}
func (nopView) Message(string)        {}
func (nopView) Warn(string)           {}
