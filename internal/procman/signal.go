// SPDX-License-Identifier: MPL-2.0

package procman

// Signal identifies an OS signal to deliver to a managed child. Its
// numeric meaning is platform-specific; build one with ParseSignal or use
// DefaultSignal rather than a bare integer literal.
type Signal int

// DefaultSignal is the signal execwatch delivers for Signal/Restart
// busy-policy transitions when the user has not configured one
// explicitly.
const DefaultSignal = Signal(sigterm)

// ParseSignal resolves a user-supplied signal name ("SIGUSR1", "USR1",
// "TERM", or a bare number like "15") to a Signal. It reports false for a
// name it cannot resolve. On non-POSIX platforms this still resolves the
// common POSIX names and numbers, even though SignalCapable is false
// there: execwatch needs to know whether a configured signal is one of
// the terminating ones before deciding to degrade it to Kill or ignore
// it, which requires parsing it successfully in the first place.
func ParseSignal(name string) (Signal, bool) {
	return parseSignal(name)
}

// SignalCapable reports whether this platform can deliver arbitrary
// signals to a child (POSIX) or only forcibly terminate it (Windows). The
// execwatch policy layer consults this to degrade Signal/Restart to Kill
// on platforms where Signal is not available.
const SignalCapable = signalCapable

// TerminatingSignal reports whether sig's default disposition would
// terminate the process it's delivered to. On a !SignalCapable platform,
// the execwatch policy layer uses this to decide whether a configured
// Signal/Restart signal degrades to Kill (for SIGTERM/SIGKILL-equivalent
// signals) or is ignored outright (everything else).
func TerminatingSignal(sig Signal) bool {
	return terminatingSignal(sig)
}
