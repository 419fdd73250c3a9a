// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"time"

	"watchexec/internal/wxerr"
)

// WaitFS blocks until at least one non-excluded PathOp arrives on rx, then
// keeps draining rx until debounce elapses with no further event. It
// returns every non-excluded PathOp seen, in backend arrival order.
//
// Phase A (acquisition) guarantees the caller never sees an empty result:
// it blocks, unconditionally, until a path survives the filter. Phase B
// (cool-off) then lets a burst of related changes settle before handing
// the whole batch back. A local cache — keyed on the full PathOp, so the
// same path with a different op is tracked separately — records each
// path's exclusion verdict so repeated notifications for the same change
// (common with editors that write-then-rename) don't re-run the filter or
// get pushed twice.
//
// A closed rx during Phase A means the backend has gone away entirely;
// that is unrecoverable and is reported as wxerr.ErrBackendReceive. A
// closed rx during Phase B is treated the same as a debounce timeout: the
// batch collected so far is returned without error, since the caller is
// about to find out about the closed channel on its next WaitFS call
// regardless.
func WaitFS(rx <-chan Event, filter *Filter, debounce time.Duration, noMeta bool) ([]PathOp, error) {
	var result []PathOp
	cache := make(map[PathOp]bool)

	for {
		ev, ok := <-rx
		if !ok {
			return nil, wxerr.ErrBackendReceive
		}
		if !ev.HasPath {
			continue
		}

		hasOp := ev.OpErr == nil
		pop := NewPathOp(ev.Path, ev.Op, hasOp, ev.Cookie, ev.HasCookie)

		if hasOp && noMeta && ev.Op.IsMeta() {
			continue
		}

		// Ignore cache for the initial event: always recompute the verdict
		// so the path that wakes the debouncer is never stale, but only
		// seed the cache if this exact PathOp hasn't been recorded yet.
		excluded := filter.IsExcluded(ev.Path)
		if _, seen := cache[pop]; !seen {
			cache[pop] = excluded
		}
		if !excluded {
			result = append(result, pop)
			break
		}
	}

	timer := time.NewTimer(debounce)
	defer timer.Stop()

	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case ev, ok := <-rx:
			if !ok {
				return result, nil
			}
			if !ev.HasPath {
				resetTimer()
				continue
			}

			hasOp := ev.OpErr == nil
			pop := NewPathOp(ev.Path, ev.Op, hasOp, ev.Cookie, ev.HasCookie)

			if hasOp && noMeta && ev.Op.IsMeta() {
				resetTimer()
				continue
			}
			if _, seen := cache[pop]; seen {
				resetTimer()
				continue
			}

			excluded := filter.IsExcluded(ev.Path)
			cache[pop] = excluded
			if !excluded {
				result = append(result, pop)
			}
			resetTimer()

		case <-timer.C:
			return result, nil
		}
	}
}
