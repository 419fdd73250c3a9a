// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package procman

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

const sigterm = Signal(unix.SIGTERM)

const signalCapable = true

// parseSignal accepts the forms watchexec's own --signal flag documents:
// a full "SIGUSR1"-style name, the same name without the "SIG" prefix, or
// a bare signal number. unix.SignalNum carries the name table so this
// doesn't have to hand-maintain one that would drift across unix variants
// (the set of SIGRTMIN+N-style realtime signals differs by OS).
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
	if num := unix.SignalNum(upper); num != 0 {
		return Signal(num), true
	}
	return 0, false
}

func isSIGCHLD(sig Signal) bool {
	return unix.Signal(sig) == unix.SIGCHLD
}

// toSignal converts an os/signal-delivered value to our Signal type. The
// channel registered with signal.Notify carries concrete syscall.Signal
// values on unix; anything else (there isn't really anything else here)
// doesn't resolve.
func toSignal(sig os.Signal) (Signal, bool) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return 0, false
	}
	return Signal(s), true
}

// notifySignals lists what the process-wide forwarder subscribes to:
// every signal a watched child could plausibly care about, plus SIGCHLD
// for reaping. Registering truly everything would include signals Go
// can't usefully forward anyway (job-control internals, SIGSEGV-class
// ones that Go's runtime already claims) so the list is the forwardable
// subset.
func notifySignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM,
		syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGWINCH, syscall.SIGCHLD,
		syscall.SIGALRM, syscall.SIGTSTP, syscall.SIGCONT,
	}
}

// terminatingSignal reports whether sig's default disposition (absent any
// handler) would terminate the process. The plumber forwards first and
// then, only for these, terminates the watcher itself too, so installing
// the forwarder doesn't change whether a given signal ends the run.
// SIGUSR1/SIGUSR2/SIGALRM terminate by default too, even though they are
// usually sent to be handled.
func terminatingSignal(sig Signal) bool {
	switch unix.Signal(sig) {
	case unix.SIGHUP, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM,
		unix.SIGUSR1, unix.SIGUSR2, unix.SIGALRM:
		return true
	default:
		return false
	}
}
