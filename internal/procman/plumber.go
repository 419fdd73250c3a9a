// SPDX-License-Identifier: MPL-2.0

package procman

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var (
	plumberOnce sync.Once
	attached    atomic.Pointer[Slot]
)

// Plumber is a handler's attachment to the process-wide signal-forwarding
// goroutine. Constructing one installs that goroutine the first time it
// happens in this process (sync.Once) and makes slot the target of every
// signal it forwards from then on; constructing a second Plumber in the
// same process simply takes over forwarding (last writer wins).
//
// A Plumber deliberately holds no strong reference of its own to slot
// beyond what's needed to Detach correctly — the live target lives in the
// package-level atomic pointer so that Detach can drop it and let the
// Slot (and whatever child it still references) become collectible once
// the owning watch loop has torn down, without the forwarding goroutine
// itself going away.
type Plumber struct {
	slot *Slot
}

// NewPlumber attaches slot to the process-wide signal forwarder.
func NewPlumber(slot *Slot) *Plumber {
	plumberOnce.Do(installSignalForwarder)
	attached.Store(slot)
	return &Plumber{slot: slot}
}

// Detach stops this Plumber's slot from receiving forwarded signals. It
// is a CompareAndSwap against this Plumber's own slot rather than an
// unconditional clear, so that a Detach from an old Plumber can never
// undo a newer Plumber's attachment.
func (p *Plumber) Detach() {
	attached.CompareAndSwap(p.slot, nil)
}

// installSignalForwarder registers the forwardable signal set (see
// notifySignals) and runs the dispatch loop for the lifetime of the
// process. SIGCHLD triggers a reap; everything else is forwarded (POSIX)
// or turned into a kill (non-POSIX) against whatever Slot is currently
// attached. For signals whose default disposition would have terminated
// the process, the watcher then terminates itself too, preserving that
// disposition rather than overriding it.
func installSignalForwarder() {
	ch := make(chan os.Signal, 64)
	signal.Notify(ch, notifySignals()...)

	go func() {
		for sig := range ch {
			dispatchSignal(sig)
		}
	}()
}

func dispatchSignal(sig os.Signal) {
	s, resolved := toSignal(sig)

	if slot := attached.Load(); slot != nil {
		switch {
		case resolved && isSIGCHLD(s):
			if _, err := slot.IsRunning(); err != nil {
				log.Debug("reap after SIGCHLD failed", "err", err)
			}
		case SignalCapable && resolved:
			if err := slot.Signal(s); err != nil {
				log.Debug("forward signal to child failed", "signal", sig, "err", err)
			}
		default:
			if err := slot.Kill(); err != nil {
				log.Debug("kill child on signal forward failed", "signal", sig, "err", err)
			}
		}
	}

	if resolved && !isSIGCHLD(s) && terminatingSignal(s) {
		terminateSelf(s)
	} else if !resolved {
		// Platforms (Windows) whose only notified signal never resolves to
		// a Signal value are, by construction, always terminating.
		terminateSelf(0)
	}
}

// terminateSelf ends the watcher process itself once its child has been
// signaled/killed, matching the terminating signal's own default
// disposition. It deliberately bypasses graceful shutdown (no Detach, no
// backend.Close): the signal that got us here would have killed the
// process outright if nothing had intercepted it.
func terminateSelf(sig Signal) {
	os.Exit(128 + int(sig))
}
