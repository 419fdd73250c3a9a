// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"watchexec/internal/wxerr"
)

// Handler receives the two kinds of update the watch loop produces: a
// one-off manual invocation before the first filesystem event, and every
// subsequent debounced batch. A false return (with a nil error) asks the
// loop to stop gracefully; a non-nil error aborts it.
type Handler interface {
	OnManual() (bool, error)
	OnUpdate(ops []PathOp) (bool, error)
}

// Options configures a single call to Watch. It mirrors the subset of
// config.Config the watch package itself needs; the CLI (cmd/watchexec)
// translates the merged configuration down to this shape.
type Options struct {
	Paths        []string
	Filters      []string
	Ignores      []string
	NoIgnore     bool
	NoVCSIgnore  bool
	Poll         bool
	PollInterval time.Duration
	Debounce     time.Duration
	NoMeta       bool
	RunInitially bool
}

const defaultPollInterval = time.Second

// Watch canonicalizes Options.Paths, builds the filter and backend, and
// then runs the synchronous wait/handle loop until the Handler asks to
// stop or an error occurs. Exactly one of handler.OnManual/OnUpdate is in
// flight at any time: the loop never starts waiting for the next batch of
// filesystem activity until the previous handler call has returned.
func Watch(opts Options, handler Handler) error {
	paths := make([]string, 0, len(opts.Paths))
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", wxerr.ErrCanonicalization, p, err)
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", wxerr.ErrCanonicalization, p, err)
		}
		paths = append(paths, resolved)
	}

	var vcsRoots, genericRoots []string
	if !opts.NoIgnore {
		genericRoots = paths
		if !opts.NoVCSIgnore {
			vcsRoots = paths
		}
	}

	filter, err := NewFilter(opts.Filters, opts.Ignores, paths, vcsRoots, genericRoots)
	if err != nil {
		return err
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	var backend Backend
	if opts.Poll {
		backend = NewPollBackend(paths, pollInterval)
	} else {
		fsBackend, err := NewFSBackend(paths)
		if err != nil {
			if IsENOSPC(err) {
				log.Warn("inotify watch limit too low, falling back to polling; "+
					"to increase the limit instead, run: "+
					"sysctl fs.inotify.max_user_watches=524288",
					"interval", pollInterval)
				backend = NewPollBackend(paths, pollInterval)
			} else {
				return err
			}
		} else {
			backend = fsBackend
		}
	}
	defer func() {
		_ = backend.Close()
	}()

	if opts.RunInitially {
		cont, err := handler.OnManual()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}

	for {
		log.Debug("waiting for filesystem activity")
		ops, err := WaitFS(backend.Events(), filter, opts.Debounce, opts.NoMeta)
		if err != nil {
			return err
		}
		log.Info("paths updated", "count", len(ops))

		cont, err := handler.OnUpdate(ops)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
