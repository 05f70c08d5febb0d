package settings

import (
	"sync"
	"time"
)

const defaultQuietPeriod = 100 * time.Millisecond

// Debouncer coalesces rapid updates to a free-text value and commits only
// the last one after the value has been quiet for the configured interval.
// Intermediate values are discarded, never queued.
type Debouncer struct {
	mu     sync.Mutex
	quiet  time.Duration
	commit func(string)
	timer  *time.Timer
	latest string
	armed  bool
}

// NewDebouncer builds a debouncer that invokes commit with the final value
// once input settles. The commit callback runs off the caller's goroutine.
func NewDebouncer(quiet time.Duration, commit func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = defaultQuietPeriod
	}
	return &Debouncer{quiet: quiet, commit: commit}
}

// Set records a new value and restarts the quiet-period timer.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest = value
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

// Flush commits any pending value immediately. Used by presentation code on
// teardown and by tests that need deterministic timing.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	pending := d.armed
	value := d.latest
	d.armed = false
	d.mu.Unlock()

	if pending {
		d.commit(value)
	}
}

// Stop cancels any pending commit without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.latest
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.commit(value)
}

// Store buffers the two free-text workflow options. Enum and boolean options
// do not pass through here; they are applied immediately by the workflow.
type Store struct {
	targetRole *Debouncer
	userID     *Debouncer
}

// NewStore wires debounced setters for the target role and user id fields.
func NewStore(quiet time.Duration, commitRole, commitUserID func(string)) *Store {
	return &Store{
		targetRole: NewDebouncer(quiet, commitRole),
		userID:     NewDebouncer(quiet, commitUserID),
	}
}

// SetTargetRole buffers a target role change.
func (s *Store) SetTargetRole(value string) { s.targetRole.Set(value) }

// SetUserID buffers a user id change.
func (s *Store) SetUserID(value string) { s.userID.Set(value) }

// Flush commits both pending fields immediately.
func (s *Store) Flush() {
	s.targetRole.Flush()
	s.userID.Flush()
}

// Stop cancels all pending commits.
func (s *Store) Stop() {
	s.targetRole.Stop()
	s.userID.Stop()
}
