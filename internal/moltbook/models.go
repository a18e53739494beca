package moltbook

import (
	"fmt"
	"time"
)

// Account is the subset of the /agents/me payload the tools act on.
// CreatedAt stays a string on the wire; use CreatedTime to parse it.
type Account struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	IsClaimed bool   `json:"is_claimed"`
	CreatedAt string `json:"created_at"`
}

// CreatedTime parses the account creation timestamp. The API emits
// RFC3339 with a Z suffix, but older records have been seen without a
// zone; both parse here, naive timestamps taken as UTC.
func (a Account) CreatedTime() (time.Time, error) {
	s := a.CreatedAt
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized created_at timestamp %q", s)
}

type meResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	Agent   Account `json:"agent"`
}

// PostRequest is the body of POST /posts.
type PostRequest struct {
	Submolt string `json:"submolt"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostInfo struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Verification is the transient human-verification challenge some post
// attempts come back with. It is never persisted.
type Verification struct {
	Code      string `json:"code"`
	Challenge string `json:"challenge"`
}

// PostResult is the decoded /posts envelope. Status carries the HTTP
// code (0 for network-level failures, with Error holding the message).
type PostResult struct {
	Status int `json:"-"`

	Success              bool          `json:"success"`
	Error                string        `json:"error,omitempty"`
	Message              string        `json:"message,omitempty"`
	Post                 *PostInfo     `json:"post,omitempty"`
	VerificationRequired bool          `json:"verification_required,omitempty"`
	Verification         *Verification `json:"verification,omitempty"`
	RetryAfterMinutes    int           `json:"retry_after_minutes,omitempty"`
	RetryAfterSeconds    int           `json:"retry_after_seconds,omitempty"`
}

// VerifyResult is the decoded /verify envelope.
type VerifyResult struct {
	Status int `json:"-"`

	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
