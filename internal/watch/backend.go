// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"watchexec/internal/wxerr"
)

// Backend is a source of filesystem Events. Close stops it and releases its
// resources; it is safe to call Close more than once. The two
// implementations are fsBackend (fsnotify, the default) and pollBackend
// (stat-based polling, used as a fallback and on explicit request).
type Backend interface {
	Events() <-chan Event
	Close() error
}

// fsBackend watches a set of root directories recursively using OS-level
// notifications. Newly created directories are added automatically so the
// watch stays recursive as the tree changes shape.
type fsBackend struct {
	fsw   *fsnotify.Watcher
	roots []string
	out   chan Event
	done  chan struct{}
}

// NewFSBackend recursively registers every root (as given; Watch
// canonicalizes them beforehand), then starts a goroutine translating
// fsnotify's two channels into the single unified Event stream WaitFS
// consumes. Entries that cannot be walked are skipped; a failure to create
// the fsnotify watcher or to add a directory to it returns
// wxerr.ErrBackendInit, and callers on Linux should retry once with
// NewPollBackend if the underlying error is ENOSPC.
func NewFSBackend(roots []string) (*fsBackend, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wxerr.ErrBackendInit, err)
	}

	b := &fsBackend{
		fsw:   fsw,
		roots: roots,
		out:   make(chan Event),
		done:  make(chan struct{}),
	}

	for _, root := range roots {
		if err := b.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("%w: %w", wxerr.ErrBackendInit, err)
		}
	}

	go b.run()
	return b, nil
}

func (b *fsBackend) Events() <-chan Event { return b.out }

func (b *fsBackend) Close() error {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
	return b.fsw.Close()
}

func (b *fsBackend) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil //nolint:nilerr // best-effort: skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		return b.fsw.Add(path)
	})
}

// maybeAddDir registers path if it is a newly created directory, extending
// the recursive watch to cover it.
func (b *fsBackend) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	_ = b.fsw.Add(path)
}

func (b *fsBackend) run() {
	defer close(b.out)
	for {
		select {
		case <-b.done:
			return

		case evt, ok := <-b.fsw.Events:
			if !ok {
				b.emit(Event{})
				return
			}
			if evt.Has(fsnotify.Create) {
				b.maybeAddDir(evt.Name)
			}
			ev := Event{Path: evt.Name, HasPath: true, Op: translateFsnotifyOp(evt.Op)}
			if !b.emit(ev) {
				return
			}

		case err, ok := <-b.fsw.Errors:
			if !ok {
				return
			}
			if isFatalFsnotifyError(err) {
				b.emit(Event{OpErr: fmt.Errorf("%w: %w", wxerr.ErrBackendReceive, err)})
				return
			}
			b.emit(Event{OpErr: err})
		}
	}
}

// emit sends ev to the output channel, returning false if the backend has
// been closed in the meantime so run() can stop promptly instead of
// blocking forever on a receiver that will never come.
func (b *fsBackend) emit(ev Event) bool {
	select {
	case b.out <- ev:
		return true
	case <-b.done:
		return false
	}
}

func translateFsnotifyOp(op fsnotify.Op) OpKind {
	var out OpKind
	if op.Has(fsnotify.Create) {
		out |= Create
	}
	if op.Has(fsnotify.Write) {
		out |= Write
	}
	if op.Has(fsnotify.Remove) {
		out |= Remove
	}
	if op.Has(fsnotify.Rename) {
		out |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		out |= Chmod
	}
	if out == 0 {
		out = Meta
	}
	return out
}

// IsENOSPC reports whether err (as returned from NewFSBackend, wrapping
// wxerr.ErrBackendInit) was caused by inotify watch exhaustion, the one
// case where the watch loop retries with a polling backend instead of
// failing outright.
func IsENOSPC(err error) bool {
	return isENOSPCError(err)
}
