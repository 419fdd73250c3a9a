// SPDX-License-Identifier: MPL-2.0

// Package procman owns the lifecycle of the single command a watch loop
// manages: starting it (grouped or ungrouped), signaling or killing it,
// reaping it without racing os/exec's own Wait, and forwarding signals the
// watchexec process itself receives to whichever child is current.
package procman
