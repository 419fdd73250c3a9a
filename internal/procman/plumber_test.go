// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package procman

import (
	"syscall"
	"testing"
)

// spyChild records the last Signal/Kill delivered to it, standing in for
// a real managed process without spawning one.
type spyChild struct {
	lastSignal Signal
	signaled   bool
	killed     bool
}

func (c *spyChild) Signal(sig Signal) error {
	c.lastSignal = sig
	c.signaled = true
	return nil
}
func (c *spyChild) Kill() error              { c.killed = true; return nil }
func (c *spyChild) IsRunning() (bool, error) { return true, nil }
func (c *spyChild) Wait() error              { return nil }
func (c *spyChild) PID() int                 { return 1 }

func TestPlumber_ForwardsNonTerminatingSignal(t *testing.T) {
	spy := &spyChild{}
	slot := NewSlot()
	slot.Set(spy)

	p := NewPlumber(slot)
	defer p.Detach()

	dispatchSignal(syscall.SIGWINCH)

	if !spy.signaled {
		t.Fatal("SIGWINCH was not forwarded to the attached slot's child")
	}
	if unixSignal(spy.lastSignal) != syscall.SIGWINCH {
		t.Fatalf("forwarded signal = %v, want SIGWINCH", spy.lastSignal)
	}
	if spy.killed {
		t.Fatal("SIGWINCH should not have triggered a Kill")
	}
}

func TestPlumber_DetachStopsForwarding(t *testing.T) {
	spy := &spyChild{}
	slot := NewSlot()
	slot.Set(spy)

	p := NewPlumber(slot)
	p.Detach()

	dispatchSignal(syscall.SIGWINCH)

	if spy.signaled {
		t.Fatal("signal was forwarded after Detach, want inert")
	}
}

func TestPlumber_DetachIsCompareAndSwap(t *testing.T) {
	slotA := NewSlot()
	slotB := NewSlot()

	pA := NewPlumber(slotA)
	pB := NewPlumber(slotB)

	// pA's Detach must not clear pB's later attachment: CompareAndSwap only
	// detaches if the attached pointer still equals pA's own slot.
	pA.Detach()

	spyB := &spyChild{}
	slotB.Set(spyB)
	dispatchSignal(syscall.SIGWINCH)

	if !spyB.signaled {
		t.Fatal("slotB should still receive forwarded signals after an unrelated Detach")
	}

	pB.Detach()
}

func unixSignal(s Signal) syscall.Signal {
	return syscall.Signal(s)
}
