// SPDX-License-Identifier: MPL-2.0

// Package pathenv turns a debounced batch of watch.PathOp values into the
// environment variables execwatch enriches the spawned command with.
package pathenv

import (
	"fmt"
	"path/filepath"
	"strings"

	"watchexec/internal/watch"
)

// Var is one environment variable to attach to the spawned command.
type Var struct {
	Name  string
	Value string
}

// Collect builds the WATCHEXEC_* variables for one triggering batch:
//
//   - WATCHEXEC_EVENT_{i}_PATH / WATCHEXEC_EVENT_{i}_OP: one indexed pair
//     per PathOp, in batch order.
//   - WATCHEXEC_COMMON_DIRNAME: the deepest directory common to every
//     changed path.
//   - WATCHEXEC_{WRITTEN,CREATED,REMOVED,RENAMED}_PATH: colon-joined
//     lists of paths whose op carries the matching bit, omitted when
//     empty.
//
// A nil or empty ops produces no variables; manual invocation (an empty
// op list) therefore enriches nothing.
func Collect(ops []watch.PathOp) []Var {
	if len(ops) == 0 {
		return nil
	}

	var vars []Var
	var written, created, removed, renamed []string
	dirs := make([]string, 0, len(ops))

	for i, op := range ops {
		vars = append(vars,
			Var{Name: fmt.Sprintf("WATCHEXEC_EVENT_%d_PATH", i), Value: op.Path},
			Var{Name: fmt.Sprintf("WATCHEXEC_EVENT_%d_OP", i), Value: op.Op.String()},
		)
		dirs = append(dirs, filepath.Dir(op.Path))

		if !op.HasOp {
			continue
		}
		if op.Op.Has(watch.Write) {
			written = append(written, op.Path)
		}
		if op.Op.Has(watch.Create) {
			created = append(created, op.Path)
		}
		if op.Op.Has(watch.Remove) {
			removed = append(removed, op.Path)
		}
		if op.Op.Has(watch.Rename) {
			renamed = append(renamed, op.Path)
		}
	}

	vars = append(vars, Var{Name: "WATCHEXEC_COMMON_DIRNAME", Value: commonDir(dirs)})
	vars = appendJoined(vars, "WATCHEXEC_WRITTEN_PATH", written)
	vars = appendJoined(vars, "WATCHEXEC_CREATED_PATH", created)
	vars = appendJoined(vars, "WATCHEXEC_REMOVED_PATH", removed)
	vars = appendJoined(vars, "WATCHEXEC_RENAMED_PATH", renamed)

	return vars
}

func appendJoined(vars []Var, name string, paths []string) []Var {
	if len(paths) == 0 {
		return vars
	}
	return append(vars, Var{Name: name, Value: strings.Join(paths, ":")})
}

// commonDir returns the deepest directory shared by every entry in dirs,
// comparing path segments rather than characters so "/w/ab" and "/w/abc"
// don't spuriously share "/w/ab".
func commonDir(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}

	common := strings.Split(filepath.ToSlash(dirs[0]), "/")
	for _, d := range dirs[1:] {
		segs := strings.Split(filepath.ToSlash(d), "/")
		common = commonPrefix(common, segs)
		if len(common) == 0 {
			break
		}
	}
	joined := strings.Join(common, "/")
	if joined == "" && len(common) == 1 {
		// Only the empty segment before the leading "/" is shared.
		joined = "/"
	}
	return filepath.FromSlash(joined)
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
