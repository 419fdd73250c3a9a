// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalBackendErrnos are the error numbers that leave the notification
// backend unable to continue: the inotify watch table is full (ENOSPC,
// tunable via fs.inotify.max_user_watches) or a file-descriptor limit has
// been hit, per-process (EMFILE) or system-wide (ENFILE).
var fatalBackendErrnos = []syscall.Errno{
	syscall.ENOSPC,
	syscall.EMFILE,
	syscall.ENFILE,
}

func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalBackendErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// isENOSPCError singles out, among the fatal conditions above, the one the
// watch loop retries with a polling backend rather than giving up: a full
// inotify watch table, which a stat-based poller does not need at all.
func isENOSPCError(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}
