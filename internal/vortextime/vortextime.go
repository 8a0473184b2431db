/*
NAME
  vortextime.go

DESCRIPTION
  vortextime formats a time.Duration into a human-scaled string for
  phase-timing log lines, supplemented from the original Rust
  implementation's format_duration helper and its timed_block! macro.
*/

// Package vortextime formats durations for human-readable progress
// logging.
package vortextime

import (
	"fmt"
	"time"
)

// Format renders d using the coarsest unit that keeps the number
// readable: microseconds, milliseconds, seconds, or hh:mm:ss.
func Format(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%d s", int64(d.Seconds()))
	default:
		h := int64(d.Hours())
		m := int64(d.Minutes()) % 60
		s := int64(d.Seconds()) % 60
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
}
