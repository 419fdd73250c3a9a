// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalBackendErrnos are the error numbers that leave the notification
// backend unable to continue. Windows has no inotify-style watch table,
// but ReadDirectoryChangesW still draws on the process's and system's
// handle tables, so the same class of resource exhaustion surfaces as
// one of these.
var fatalBackendErrnos = []syscall.Errno{
	4, // ERROR_TOO_MANY_OPEN_FILES
	6, // ERROR_INVALID_HANDLE
	8, // ERROR_NOT_ENOUGH_MEMORY
}

func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalBackendErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// isENOSPCError never reports true here: with no watch-table limit there
// is no exhaustion case worth retrying with a poller, so the polling
// backend on this platform is only ever reached by explicit request.
func isENOSPCError(error) bool {
	return false
}
