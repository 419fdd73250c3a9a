// SPDX-License-Identifier: MPL-2.0

package procman

import (
	"os/exec"
	"sync/atomic"
)

// runningChild is the shared implementation behind both the grouped and
// ungrouped Child variants: only Signal/Kill's target (group vs. leader)
// differs between them, so that's the only thing newChild's platform
// helpers plug in.
//
// Reaping is done by a single background goroutine calling cmd.Wait()
// exactly once and closing done — one owner waits, everyone else watches
// a channel — so IsRunning's non-blocking poll and Wait's blocking wait
// never race os/exec's own internal bookkeeping for the same PID.
type runningChild struct {
	cmd    *exec.Cmd
	pid    int
	done   chan struct{}
	exited atomic.Bool

	signal func(Signal) error
	kill   func() error
}

// startRunningChild starts cmd and launches its reaper goroutine. The
// caller fills in signal/kill on the returned value before it is handed
// to anything that might invoke them — newChild's platform variants need
// the assigned PID to build those closures, which isn't known until after
// Start succeeds.
func startRunningChild(cmd *exec.Cmd) (*runningChild, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	c := &runningChild{
		cmd:  cmd,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		c.exited.Store(true)
		close(c.done)
	}()

	return c, nil
}

func (c *runningChild) Signal(sig Signal) error {
	if c.exited.Load() {
		return nil
	}
	return c.signal(sig)
}

func (c *runningChild) Kill() error {
	if c.exited.Load() {
		return nil
	}
	return c.kill()
}

// IsRunning's non-blocking poll is just a channel check: the reaping
// goroutine above already did the actual wait4/GetExitCodeProcess work.
// Observing false here does not itself flip the owning Slot back to
// None — only Slot.Set (the next spawn) does that.
func (c *runningChild) IsRunning() (bool, error) {
	select {
	case <-c.done:
		return false, nil
	default:
		return true, nil
	}
}

func (c *runningChild) Wait() error {
	<-c.done
	return nil
}

func (c *runningChild) PID() int {
	return c.pid
}
