// Package timer implements the single focus timer: at most one task is
// actively timed, elapsed time is always derived from the wall clock, and
// expiry fires exactly once per run.
package timer

import (
	"errors"
	"math"
	"sync"
	"time"

	"tableflip.dev/focusflow/pkg/task"
)

// DefaultTargetMinutes is the pomodoro length used when the task being
// timed has no estimate.
const DefaultTargetMinutes = 25

// ErrRunning is returned by Start while another run is active. Callers must
// stop the current run first; there are no concurrent timers.
var ErrRunning = errors.New("timer: already running")

// State names the timer states.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
)

// Expiry is the one-shot notification fired when a run reaches its target.
type Expiry struct {
	TaskID         string
	Title          string
	TargetSeconds  int
	ElapsedSeconds int
}

// Snapshot is the externally visible timer state.
type Snapshot struct {
	State          State  `json:"state"`
	TaskID         string `json:"active_task_id,omitempty"`
	Title          string `json:"title,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	TargetSeconds  int    `json:"target_seconds,omitempty"`
}

// Result reports what a stopped run should credit back to the task.
type Result struct {
	TaskID         string
	ElapsedSeconds int
	CreditMinutes  int
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithoutTicker disables the background sampling goroutine; callers drive
// Tick themselves.
func WithoutTicker() Option {
	return func(t *Timer) { t.noTicker = true }
}

// Timer is the process-wide focus timer.
type Timer struct {
	mu       sync.Mutex
	now      func() time.Time
	onExpire func(Expiry)
	noTicker bool

	state  State
	taskID string
	title  string
	start  time.Time
	target int // seconds
	fired  bool
	cancel chan struct{}
}

// New creates an idle timer. onExpire may be nil.
func New(onExpire func(Expiry), opts ...Option) *Timer {
	t := &Timer{
		now:      time.Now,
		onExpire: onExpire,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins timing tk. Target is the task estimate, or the default
// pomodoro length when it has none.
func (t *Timer) Start(tk *task.Task) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Running {
		return ErrRunning
	}

	t.state = Running
	t.taskID = tk.ID
	t.title = tk.Title
	t.start = t.now()
	t.target = tk.EstimateOr(DefaultTargetMinutes) * 60
	t.fired = false

	if !t.noTicker {
		cancel := make(chan struct{})
		t.cancel = cancel
		go t.loop(cancel)
	}
	return nil
}

// loop samples once a second until the run ends. The tick is a sampling
// cadence only; elapsed time comes from the wall-clock delta, so missed
// ticks do not drift.
func (t *Timer) loop(cancel chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if snap := t.Tick(); snap.State != Running {
				return
			}
		}
	}
}

// Tick samples the current run and fires the one-shot expiry when the
// target is reached, after which the timer is Idle again.
func (t *Timer) Tick() Snapshot {
	t.mu.Lock()
	if t.state != Running {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap
	}

	elapsed := int(t.now().Sub(t.start) / time.Second)
	var expiry *Expiry
	if t.target > 0 && elapsed >= t.target && !t.fired {
		t.fired = true
		expiry = &Expiry{
			TaskID:         t.taskID,
			Title:          t.title,
			TargetSeconds:  t.target,
			ElapsedSeconds: elapsed,
		}
		t.resetLocked()
	}
	snap := t.snapshotLocked()
	if snap.State == Running {
		snap.ElapsedSeconds = elapsed
	}
	onExpire := t.onExpire
	t.mu.Unlock()

	if expiry != nil && onExpire != nil {
		onExpire(*expiry)
	}
	return snap
}

// Stop ends the current run and reports the minutes to credit, a minimum of
// one for any run. The second return is false when nothing was running.
func (t *Timer) Stop() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return Result{}, false
	}

	elapsed := int(t.now().Sub(t.start) / time.Second)
	credit := int(math.Round(float64(elapsed) / 60.0))
	if credit < 1 {
		credit = 1
	}
	res := Result{
		TaskID:         t.taskID,
		ElapsedSeconds: elapsed,
		CreditMinutes:  credit,
	}
	t.resetLocked()
	return res, true
}

// Snapshot reports the current state without advancing anything.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.snapshotLocked()
	if snap.State == Running {
		snap.ElapsedSeconds = int(t.now().Sub(t.start) / time.Second)
	}
	return snap
}

func (t *Timer) snapshotLocked() Snapshot {
	if t.state != Running {
		return Snapshot{State: Idle}
	}
	return Snapshot{
		State:         Running,
		TaskID:        t.taskID,
		Title:         t.title,
		TargetSeconds: t.target,
	}
}

// resetLocked returns the timer to Idle and cancels the sampling loop.
func (t *Timer) resetLocked() {
	t.state = Idle
	t.taskID = ""
	t.title = ""
	t.start = time.Time{}
	t.target = 0
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}
