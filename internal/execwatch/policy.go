// SPDX-License-Identifier: MPL-2.0

// Package execwatch decides what happens to the managed command when the
// filesystem changes: it is the watch.Handler that drives a procman.Slot
// in response to manual invocation and debounced update batches.
package execwatch

import "strings"

// BusyPolicy is what to do about a debounced update that arrives while
// the previous command is still running.
type BusyPolicy int

const (
	// DoNothing leaves the running command alone. The default.
	DoNothing BusyPolicy = iota
	// Queue waits for the running command to exit, then spawns.
	Queue
	// Restart signals the running command, waits for it to exit, then
	// spawns.
	Restart
	// Signal only signals the running command; nothing is spawned.
	Signal
)

// ParseBusyPolicy resolves a config/CLI value ("do-nothing", "queue",
// "restart", "signal") to a BusyPolicy. It reports false for anything
// else, including an empty string — callers should apply the DoNothing
// default themselves so an explicitly-empty config value is
// distinguishable from a typo.
func ParseBusyPolicy(s string) (BusyPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "do-nothing", "donothing":
		return DoNothing, true
	case "queue":
		return Queue, true
	case "restart":
		return Restart, true
	case "signal":
		return Signal, true
	default:
		return 0, false
	}
}

func (p BusyPolicy) String() string {
	switch p {
	case DoNothing:
		return "do-nothing"
	case Queue:
		return "queue"
	case Restart:
		return "restart"
	case Signal:
		return "signal"
	default:
		return "unknown"
	}
}
