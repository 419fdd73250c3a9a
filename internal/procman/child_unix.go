// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package procman

import (
	"fmt"
	"os/exec"
	"syscall"

	"watchexec/internal/wxerr"
)

// newChild starts cmd, putting it in its own process group first when
// grouped is set so Signal/Kill reach every descendant it spawns, not
// just the direct child (Setpgid on the way in, a negative pid as the
// kill target afterwards).
func newChild(cmd *exec.Cmd, grouped bool) (Child, error) {
	if grouped {
		if cmd.SysProcAttr == nil {
			cmd.SysProcAttr = &syscall.SysProcAttr{}
		}
		cmd.SysProcAttr.Setpgid = true
	}

	rc, err := startRunningChild(cmd)
	if err != nil {
		return nil, err
	}
	pid := rc.pid
	target := pid
	if grouped {
		target = -pid
	}
	rc.signal = func(sig Signal) error {
		if err := syscall.Kill(target, syscall.Signal(sig)); err != nil {
			return fmt.Errorf("%w: pid %d: %w", wxerr.ErrSignalFailure, pid, err)
		}
		return nil
	}
	rc.kill = func() error {
		if err := syscall.Kill(target, syscall.SIGKILL); err != nil {
			return fmt.Errorf("%w: pid %d: %w", wxerr.ErrSignalFailure, pid, err)
		}
		return nil
	}

	return rc, nil
}
