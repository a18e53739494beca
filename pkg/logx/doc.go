// Package logx wraps zerolog behind a small structured logging API
// with console and optional file sinks.
package logx
