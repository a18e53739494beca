// Package store persists the scheduler's mint attempt history.
//
// Drivers:
//   - "file": dependency-free JSON Lines append log
//   - "sqlite": SQLite database file (optional build tag)
//
// An empty or "none" driver disables persistence entirely.
package store
