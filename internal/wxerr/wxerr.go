// SPDX-License-Identifier: MPL-2.0

// Package wxerr defines the sentinel error kinds shared across the
// watch/procman/execwatch core: a handful of fatal setup/runtime errors,
// and the lock-poisoning error that can surface if a shared child-process
// slot panics while held.
package wxerr

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) to attach
// context (offending path, underlying OS error) while keeping errors.Is
// checks working.
var (
	// ErrCanonicalization means a configured watch path could not be
	// resolved to an absolute, symlink-free form. Fatal during setup.
	ErrCanonicalization = errors.New("watchexec: path canonicalization failed")

	// ErrBackendInit means the filesystem-notification backend could not
	// be constructed. Fatal, unless it is an ENOSPC on Linux and polling
	// was not already requested, in which case the caller retries once
	// with polling enabled instead of propagating this error.
	ErrBackendInit = errors.New("watchexec: backend initialization failed")

	// ErrBackendReceive means the event channel from the backend was
	// closed before the watch loop asked it to stop. The backend has gone
	// away; this is always fatal to the enclosing loop.
	ErrBackendReceive = errors.New("watchexec: backend event channel closed")

	// ErrSpawnFailed means starting the configured command failed. The
	// handler surfaces it from the update that triggered it, and the
	// enclosing loop aborts.
	ErrSpawnFailed = errors.New("watchexec: failed to spawn command")

	// ErrLockPoisoned means the child-process slot's mutex was found
	// locked by a goroutine that panicked while holding it. The watch
	// loop is single-threaded plus one signal-delivery goroutine, so
	// poisoning implies a bug elsewhere; always fatal.
	ErrLockPoisoned = errors.New("watchexec: child process lock poisoned")

	// ErrClearScreen means clearing the terminal before a run failed.
	// Fatal for the current update only.
	ErrClearScreen = errors.New("watchexec: failed to clear screen")

	// ErrSignalFailure means delivering a signal or kill to the managed
	// child failed at the OS level. When it originates from the
	// asynchronous signal handler it is logged and swallowed; a handler
	// invoking signal/kill synchronously (e.g. the once-mode final
	// signal) surfaces it instead.
	ErrSignalFailure = errors.New("watchexec: signal delivery failed")
)
