// Package mbc20 encodes MBC-20 mint operations as Moltbook post content.
package mbc20

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
)

// DefaultLink is the ledger link marker appended after the payload.
const DefaultLink = "mbc20.xyz"

// Protocol is the fixed protocol tag carried in every payload.
const Protocol = "mbc-20"

var (
	ErrBadTick = errors.New("tick must be 1-10 uppercase letters or digits")
	ErrBadAmt  = errors.New("amt must be a positive integer")
)

var tickRe = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// NormalizeTick uppercases the ticker and validates it against
// [A-Z0-9]{1,10}. Idempotent on valid input.
func NormalizeTick(tick string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(tick))
	if !tickRe.MatchString(v) {
		return "", ErrBadTick
	}
	return v, nil
}

// NormalizeAmt validates a digits-only positive amount and strips
// leading zeros. Amounts are carried as strings end to end, so there is
// no upper bound; token amounts at 18 decimals routinely exceed uint64.
func NormalizeAmt(amt string) (string, error) {
	raw := strings.TrimSpace(amt)
	if raw == "" {
		return "", ErrBadAmt
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", ErrBadAmt
		}
	}
	v := strings.TrimLeft(raw, "0")
	if v == "" {
		return "", ErrBadAmt
	}
	return v, nil
}

// payload has a fixed key order; encoding/json emits struct fields in
// declaration order, which keeps the serialization deterministic.
type payload struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Amt  string `json:"amt"`
}

func encodePayload(tick, amt string) string {
	b, _ := json.Marshal(payload{P: Protocol, Op: "mint", Tick: tick, Amt: amt})
	return string(b)
}

// Nonce renders t in UTC at second precision (YYYYMMDDHHMMSS).
func Nonce(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// MintContent builds the scheduler post body: compact payload, a space,
// the link marker, and an optional nonce suffix.
func MintContent(tick, amt, link, nonce string) string {
	if link == "" {
		link = DefaultLink
	}
	base := encodePayload(tick, amt) + " " + link
	if nonce == "" {
		return base
	}
	return base + "\n\nnonce:" + nonce
}

// HelperContent builds the binding helper's mint output: compact
// payload, a blank line, and the link marker. Never carries a nonce.
func HelperContent(tick, amt string) string {
	return encodePayload(tick, amt) + "\n\n" + DefaultLink
}
