// SPDX-License-Identifier: MPL-2.0

package execwatch

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"watchexec/internal/procman"
	"watchexec/internal/watch"
	"watchexec/internal/wxerr"
)

// Options configures a Handler. It mirrors the subset of config.Config
// the exec-lifecycle policy needs directly, the fields not already
// covered by watch.Options.
type Options struct {
	Cmd             []string
	Shell           Shell
	NoEnvironment   bool
	UseProcessGroup bool
	Signal          string
	OnBusyUpdate    BusyPolicy
	Once            bool
	ClearScreen     bool
}

// Handler is the watch.Handler that spawns, signals, restarts, or queues
// the configured command according to the busy policy. It owns no child
// state directly — that lives in the shared procman.Slot — so a Handler
// is cheap to construct and the Slot can be handed to a procman.Plumber
// independently.
type Handler struct {
	opts   Options
	slot   *procman.Slot
	logger *log.Logger

	configuredSignal procman.Signal
	hasSignal        bool
}

// New validates opts.Signal (if set) and returns a Handler bound to slot.
func New(opts Options, slot *procman.Slot, logger *log.Logger) (*Handler, error) {
	h := &Handler{opts: opts, slot: slot, logger: logger}

	if opts.Signal != "" {
		sig, ok := procman.ParseSignal(opts.Signal)
		if !ok {
			return nil, fmt.Errorf("execwatch: unrecognized signal %q", opts.Signal)
		}
		h.configuredSignal = sig
		h.hasSignal = true
	}

	return h, nil
}

// effectiveSignal is the configured signal, or SIGTERM when none was set.
func (h *Handler) effectiveSignal() procman.Signal {
	if h.hasSignal {
		return h.configuredSignal
	}
	return procman.DefaultSignal
}

// OnManual handles the run-initially invocation: if Once is set, report
// "continue" without spawning (the run-once spawn happens from the first
// debounced update instead); otherwise spawn with an empty op list.
func (h *Handler) OnManual() (bool, error) {
	if h.opts.Once {
		return true, nil
	}
	if err := h.spawn(nil); err != nil {
		return false, err
	}
	return true, nil
}

// OnUpdate applies the (running, busy-policy) dispatch table, then the
// Once post-dispatch rule.
func (h *Handler) OnUpdate(ops []watch.PathOp) (bool, error) {
	running, err := h.slot.IsRunning()
	if err != nil {
		return false, fmt.Errorf("%w: %w", wxerr.ErrLockPoisoned, err)
	}

	if err := h.dispatch(running, ops); err != nil {
		return false, err
	}

	if h.opts.Once {
		if h.hasSignal {
			if err := h.signalProcess(); err != nil {
				return false, err
			}
		}
		if err := h.slot.Wait(); err != nil {
			return false, fmt.Errorf("%w: %w", wxerr.ErrLockPoisoned, err)
		}
		return false, nil
	}

	return true, nil
}

// dispatch is the policy matrix itself: (running, busy_policy) -> action.
func (h *Handler) dispatch(running bool, ops []watch.PathOp) error {
	if !running {
		return h.spawn(ops)
	}

	switch h.opts.OnBusyUpdate {
	case Signal:
		return h.signalProcess()

	case Restart:
		if err := h.signalProcess(); err != nil {
			return err
		}
		if err := h.slot.Wait(); err != nil {
			return fmt.Errorf("%w: %w", wxerr.ErrLockPoisoned, err)
		}
		return h.spawn(ops)

	case Queue:
		if err := h.slot.Wait(); err != nil {
			return fmt.Errorf("%w: %w", wxerr.ErrLockPoisoned, err)
		}
		return h.spawn(ops)

	case DoNothing:
		fallthrough
	default:
		return nil
	}
}

// signalProcess delivers the effective signal. On platforms where Signal
// is unavailable, only the terminating signals (SIGTERM/SIGKILL) degrade
// to Kill; any other signal is a no-op there, since a kill-only platform
// cannot express it. Failures here are returned, not swallowed: this is
// always a synchronous call (busy-policy dispatch or once-mode teardown)
// — logging-and-swallowing is reserved for the asynchronous path in
// procman.Plumber.
func (h *Handler) signalProcess() error {
	sig := h.effectiveSignal()
	if procman.SignalCapable {
		return h.slot.Signal(sig)
	}
	if !procman.TerminatingSignal(sig) {
		h.logger.Debug("ignoring signal to send to process", "signal", sig)
		return nil
	}
	return h.slot.Kill()
}

// spawn runs one command start: clear screen, best-effort kill of
// whatever was in the slot, build the command, spawn, install.
func (h *Handler) spawn(ops []watch.PathOp) error {
	if h.opts.ClearScreen {
		if err := clearScreen(); err != nil {
			return fmt.Errorf("%w: %w", wxerr.ErrClearScreen, err)
		}
	}

	if err := h.slot.Kill(); err != nil {
		h.logger.Warn("kill of previous child before spawn failed", "err", err)
	}

	cmd, err := buildCommand(h.opts, ops)
	if err != nil {
		return fmt.Errorf("%w: %w", wxerr.ErrSpawnFailed, err)
	}

	child, err := procman.Spawn(cmd, h.opts.UseProcessGroup)
	if err != nil {
		return fmt.Errorf("%w: %w", wxerr.ErrSpawnFailed, err)
	}
	h.slot.Set(child)
	h.logger.Info("spawned command", "pid", child.PID(), "cmd", h.opts.Cmd)

	return nil
}

// clearScreen writes the "clear and home cursor" ANSI sequence.
func clearScreen() error {
	_, err := os.Stdout.WriteString("\033[2J\033[H")
	return err
}
