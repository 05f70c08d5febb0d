package notify

import (
	"sync"
	"time"
)

// Severity tags a notification for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const defaultTTL = 4 * time.Second

// Notification is a single transient user-facing message.
type Notification struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// Center holds at most one live notification. A new message always replaces
// the previous one; expiry clears the slot unless a newer message has taken
// it in the meantime.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	gen     uint64
	timer   *time.Timer
	now     func() time.Time
}

// NewCenter builds a Center with the given time-to-live per notification.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// Notify replaces the current notification and re-arms its expiry.
func (c *Center) Notify(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen
	c.current = &Notification{
		Message:   message,
		Severity:  severity,
		ExpiresAt: c.now().Add(c.ttl),
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
}

// Success posts a success-severity notification.
func (c *Center) Success(message string) { c.Notify(message, SeveritySuccess) }

// Error posts an error-severity notification.
func (c *Center) Error(message string) { c.Notify(message, SeverityError) }

// Warning posts a warning-severity notification.
func (c *Center) Warning(message string) { c.Notify(message, SeverityWarning) }

// Current returns the live notification, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || !c.now().Before(c.current.ExpiresAt) {
		return Notification{}, false
	}
	return *c.current, true
}

// Clear drops the current notification immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A newer notification owns the slot now.
	if gen != c.gen {
		return
	}
	c.current = nil
	c.timer = nil
}
