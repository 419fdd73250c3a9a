// SPDX-License-Identifier: MPL-2.0

//go:build windows

package procman

import (
	"fmt"
	"os/exec"
	"syscall"

	"watchexec/internal/wxerr"
)

// newChild starts cmd. grouped starts it with CREATE_NEW_PROCESS_GROUP;
// Kill still terminates only the direct child (Process.Kill), not
// processes it has spawned. Kill is the only termination primitive on
// this platform — Signal always fails, and
// SignalCapable tells the execwatch policy layer to route
// Signal/Restart to Kill before ever calling it.
func newChild(cmd *exec.Cmd, grouped bool) (Child, error) {
	if grouped {
		if cmd.SysProcAttr == nil {
			cmd.SysProcAttr = &syscall.SysProcAttr{}
		}
		cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
	}

	rc, err := startRunningChild(cmd)
	if err != nil {
		return nil, err
	}
	pid := rc.pid
	rc.signal = func(Signal) error {
		return fmt.Errorf("%w: pid %d: signal delivery unsupported on this platform", wxerr.ErrSignalFailure, pid)
	}
	rc.kill = func() error {
		if err := rc.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("%w: pid %d: %w", wxerr.ErrSignalFailure, pid, err)
		}
		return nil
	}

	return rc, nil
}
