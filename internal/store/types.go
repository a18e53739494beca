package store

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("history store disabled")

// Config configures the attempt history store.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Attempt records one concluded post attempt. Rate-limit waits are not
// attempts; they re-enter the same attempt after the backoff.
type Attempt struct {
	At      time.Time `json:"at"`
	Tick    string    `json:"tick"`
	Amt     string    `json:"amt"`
	Submolt string    `json:"submolt"`
	Status  int       `json:"status"` // HTTP status; 0 when no code was obtained
	OK      bool      `json:"ok"`
	PostID  string    `json:"post_id,omitempty"`
	Error   string    `json:"error,omitempty"`
}
