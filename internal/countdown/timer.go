// Package countdown provides the per-task countdown: a single repeating
// one-second tick and the mm:ss display derived from the remaining time.
package countdown

import (
	"fmt"
	"sync"
	"time"
)

// Period is the interval between ticks.
const Period = time.Second

// Format renders remaining seconds as zero-padded minutes:seconds.
// Negative values are clamped to 00:00.
func Format(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// TickerFunc starts a tick source with the given period. It returns the tick
// channel and a function that stops the source.
type TickerFunc func(period time.Duration) (<-chan time.Time, func())

// RealTicker is the default TickerFunc, backed by time.NewTicker.
func RealTicker(period time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(period)
	return t.C, t.Stop
}

// Timer runs at most one live tick loop. Arm always cancels the previous
// loop before starting a new one.
type Timer struct {
	ticker TickerFunc
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a Timer. A nil ticker selects RealTicker.
func New(ticker TickerFunc) *Timer {
	if ticker == nil {
		ticker = RealTicker
	}
	return &Timer{ticker: ticker, period: Period}
}

// Arm cancels any live tick loop and starts a new one that calls fn on every
// tick. The loop ends when fn returns false or Cancel is called.
func (t *Timer) Arm(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	ticks, stopTicker := t.ticker(t.period)
	go func() {
		defer close(done)
		defer stopTicker()
		for {
			select {
			case <-stop:
				return
			case <-ticks:
				select {
				case <-stop:
					return
				default:
				}
				if !fn() {
					return
				}
			}
		}
	}()
}

// Cancel stops the live tick loop, if any. It does not wait for an in-flight
// tick callback to return, so it is safe to call from inside one.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Armed reports whether a tick loop is currently live.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the current tick loop exits. It is nil
// when the timer was never armed.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
