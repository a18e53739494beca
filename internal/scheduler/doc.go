// Package scheduler runs the rate-compliant mint posting loop.
//
// A session fetches the account snapshot once, derives the platform
// interval floor from account age, then alternates POST attempts and
// full-interval sleeps until the bounded success count is reached (or
// forever when unbounded). Rate-limit responses re-enter the same
// attempt after the server-directed wait and conclude nothing.
package scheduler
