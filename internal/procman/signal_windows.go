// SPDX-License-Identifier: MPL-2.0

//go:build windows

package procman

import (
	"os"
	"strconv"
	"strings"
)

// Windows has no POSIX signal numbering and no SIGCHLD; the process
// table that CreateProcess/TerminateProcess work with is kill-only.
// sigNumbers gives the
// common POSIX signal numbers names resolve to purely so --signal still
// names something and ParseSignal doesn't reject a value the config file
// also uses on POSIX hosts; SignalCapable being false means none of these
// are ever actually delivered — they only drive the kill-or-ignore
// decision in terminatingSignal.
const sigterm = Signal(15)

const signalCapable = false

var sigNumbers = map[string]Signal{
	"SIGHUP":  1,
	"SIGINT":  2,
	"SIGQUIT": 3,
	"SIGILL":  4,
	"SIGTRAP": 5,
	"SIGABRT": 6,
	"SIGBUS":  7,
	"SIGFPE":  8,
	"SIGKILL": 9,
	"SIGUSR1": 10,
	"SIGSEGV": 11,
	"SIGUSR2": 12,
	"SIGPIPE": 13,
	"SIGALRM": 14,
	"SIGTERM": 15,
}

// parseSignal resolves the same name/number forms parseSignal accepts on
// POSIX (a "SIGUSR1"-style name, the name without its "SIG" prefix, or a
// bare number), against the POSIX-numbering table above rather than any
// platform API — SignalCapable being false means execwatch never calls
// Signal() with the result, only terminatingSignal(), so a name that
// resolves to the "wrong" number here has no observable effect.
func parseSignal(name string) (Signal, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		return Signal(n), true
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}
	if sig, ok := sigNumbers[upper]; ok {
		return sig, true
	}
	return 0, false
}

func isSIGCHLD(Signal) bool {
	return false
}

// toSignal never resolves on Windows: os.Signal delivery here carries no
// POSIX signal identity to forward, only the fact that something arrived.
func toSignal(os.Signal) (Signal, bool) {
	return 0, false
}

// notifySignals: os/signal only delivers os.Interrupt portably on
// Windows (Go translates console control events to it).
func notifySignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// terminatingSignal reports whether sig is one of the two signals whose
// default disposition is to terminate in a kill-only world (SIGTERM,
// SIGKILL). This is what execwatch.signalProcess consults to decide
// whether a configured Signal/Restart signal degrades to Kill or is
// ignored outright; it is unrelated to the plumber's own
// forwarded-os.Interrupt handling, which never resolves a Signal on this
// platform and so never reaches this function via that path.
func terminatingSignal(sig Signal) bool {
	return sig == sigterm || sig == Signal(9)
}
