// SPDX-License-Identifier: MPL-2.0

package procman

import (
	"os/exec"
	"sync"
)

// Child is one running (or not-yet-started) managed command. The three
// variants are None (no command has ever run yet), and the platform's
// grouped/ungrouped process, selected by Spawn based on the UseProcessGroup
// option.
type Child interface {
	Signal(sig Signal) error
	Kill() error
	IsRunning() (bool, error)
	Wait() error
	PID() int
}

// noneChild is the zero value a Slot holds before the first command has
// ever been spawned. Every operation on it is a no-op.
type noneChild struct{}

func (noneChild) Signal(Signal) error      { return nil }
func (noneChild) Kill() error              { return nil }
func (noneChild) IsRunning() (bool, error) { return false, nil }
func (noneChild) Wait() error              { return nil }
func (noneChild) PID() int                 { return 0 }

// Spawn starts cmd and wraps it as a Child. grouped requests a new process
// group (POSIX) so Signal/Kill affect the whole group instead of a single
// process; on Windows grouped only starts the child with
// CREATE_NEW_PROCESS_GROUP, and Kill terminates the direct child alone.
func Spawn(cmd *exec.Cmd, grouped bool) (Child, error) {
	return newChild(cmd, grouped)
}

// Slot holds the currently-managed Child behind a mutex. Per the
// concurrency model, Wait is called with the lock held: a signal arriving
// mid-wait blocks on the same mutex until the wait completes rather than
// racing it, and IsRunning reaps a finished child as a side effect without
// clearing the slot back to None — the next operation still observes the
// exited child until Set replaces it, which is why a caller cannot use
// IsRunning alone to decide whether a previous command has been replaced.
type Slot struct {
	mu    sync.Mutex
	child Child
}

// NewSlot returns a Slot initialized to the None variant.
func NewSlot() *Slot {
	return &Slot{child: noneChild{}}
}

// Set installs c as the currently-managed child, replacing whatever was
// there (running or not). Callers are responsible for not leaking a
// still-running previous child; the busy-policy handler decides when that
// is safe.
func (s *Slot) Set(c Child) {
	s.mu.Lock()
	s.child = c
	s.mu.Unlock()
}

// Signal forwards sig to the managed child.
func (s *Slot) Signal(sig Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.Signal(sig)
}

// Kill terminates the managed child unconditionally.
func (s *Slot) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.Kill()
}

// IsRunning reports whether the managed child is still running.
func (s *Slot) IsRunning() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.IsRunning()
}

// Wait blocks until the managed child exits, holding the slot's lock for
// the duration. This is deliberate: a signal delivered while a wait is in
// flight must queue behind it rather than reach a child that is mid-exit.
func (s *Slot) Wait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.Wait()
}

// PID returns the managed child's process ID, or 0 if nothing has been
// spawned yet.
func (s *Slot) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.PID()
}
