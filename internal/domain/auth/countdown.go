package auth

import (
	"fmt"
	"time"
)

// Countdown tracks the seconds left on a verification code. It only moves
// forward locally and is never re-synced with server time.
type Countdown struct {
	Remaining int       `json:"remaining"`
	SyncedAt  time.Time `json:"synced_at"`
}

func NewCountdown(seconds int, now time.Time) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{Remaining: seconds, SyncedAt: now}
}

// Tick removes one second, stopping at zero.
func (c *Countdown) Tick() {
	if c.Remaining > 0 {
		c.Remaining--
	}
}

// Sync applies every whole second elapsed since the last sync.
func (c *Countdown) Sync(now time.Time) {
	elapsed := int(now.Sub(c.SyncedAt) / time.Second)
	if elapsed <= 0 {
		return
	}
	c.Remaining -= elapsed
	if c.Remaining < 0 {
		c.Remaining = 0
	}
	c.SyncedAt = c.SyncedAt.Add(time.Duration(elapsed) * time.Second)
}

func (c *Countdown) Expired() bool {
	return c.Remaining == 0
}

// Label renders the remaining time as MM:SS.
func (c *Countdown) Label() string {
	return fmt.Sprintf("%02d:%02d", c.Remaining/60, c.Remaining%60)
}
