// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"os"
	"path/filepath"
	"time"
)

// pollBackend is the fallback Backend used when a native notification
// backend cannot be constructed (inotify watch exhaustion) or when polling
// is requested explicitly. It walks every root on a fixed interval and
// diffs modification times and sizes against the previous scan, so it
// needs no OS-level watch handles at all.
type pollBackend struct {
	roots    []string
	interval time.Duration
	out      chan Event
	done     chan struct{}
}

type fileStamp struct {
	modTime time.Time
	size    int64
	isDir   bool
}

// NewPollBackend starts a ticker-driven scanner over roots. interval is the
// time between scans; Watch passes the configured poll_interval (one
// second when none is set), both for explicit polling and for the ENOSPC
// fallback.
func NewPollBackend(roots []string, interval time.Duration) *pollBackend {
	b := &pollBackend{
		roots:    roots,
		interval: interval,
		out:      make(chan Event),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *pollBackend) Events() <-chan Event { return b.out }

func (b *pollBackend) Close() error {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
	return nil
}

func (b *pollBackend) run() {
	defer close(b.out)

	prev := b.scan()
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			cur := b.scan()
			for path, op := range diffStamps(prev, cur) {
				if !b.emit(Event{Path: path, HasPath: true, Op: op}) {
					return
				}
			}
			prev = cur
		}
	}
}

func (b *pollBackend) emit(ev Event) bool {
	select {
	case b.out <- ev:
		return true
	case <-b.done:
		return false
	}
}

func (b *pollBackend) scan() map[string]fileStamp {
	stamps := make(map[string]fileStamp)
	for _, root := range b.roots {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil //nolint:nilerr // best-effort: skip inaccessible entries
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // entry vanished mid-scan, treat as absent
			}
			stamps[path] = fileStamp{modTime: info.ModTime(), size: info.Size(), isDir: d.IsDir()}
			return nil
		})
	}
	return stamps
}

// diffStamps compares two scans and reports the OpKind each changed path
// should be reported with: Create for new entries, Remove for vanished
// ones, Write for entries whose size or modtime changed.
func diffStamps(prev, cur map[string]fileStamp) map[string]OpKind {
	changes := make(map[string]OpKind)
	for path, c := range cur {
		p, existed := prev[path]
		switch {
		case !existed:
			changes[path] = Create
		case p.modTime != c.modTime || p.size != c.size:
			changes[path] = Write
		}
	}
	for path := range prev {
		if _, stillThere := cur[path]; !stillThere {
			changes[path] = Remove
		}
	}
	return changes
}
