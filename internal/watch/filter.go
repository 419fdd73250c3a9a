// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Filter is the notification predicate consulted by WaitFS. It is built
// once, from four sources (user filter globs, user ignore globs,
// discovered VCS ignore files, discovered generic ignore files), and is
// safe for concurrent use afterwards: it holds no mutable state.
//
// Filter and ignore globs are matched against the event path relative to
// the watched root that contains it, so "src/**/*.go" means what a user
// standing in the watched directory expects rather than requiring the
// absolute path to be spelled out.
type Filter struct {
	roots   []string
	filters []string
	ignores []string
	rules   []rootedIgnore
}

// rootedIgnore pairs a compiled gitignore-syntax matcher with the directory
// its patterns are relative to, so a rule discovered three directories deep
// only ever matches paths under that directory.
type rootedIgnore struct {
	dir     string
	matcher *ignore.GitIgnore
}

// defaultIgnores lists path patterns that are always excluded from
// watching, regardless of user-supplied ignore patterns. These cover VCS
// metadata, dependency caches, editor swap files, and OS metadata files
// that generate high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return append([]string(nil), defaultIgnores...)
}

// NewFilter compiles filters and ignores (doublestar glob patterns,
// matched against paths relative to whichever entry in roots contains
// them) and discovers gitignore-syntax rule files under vcsRoots
// (".gitignore") and genericRoots (".ignore"). Passing an empty
// vcsRoots/genericRoots disables that source entirely — the watch loop
// uses this to implement the no_ignore/no_vcs_ignore config gates.
func NewFilter(filters, ignores []string, roots, vcsRoots, genericRoots []string) (*Filter, error) {
	if err := validatePatterns(filters); err != nil {
		return nil, fmt.Errorf("watch: invalid filter pattern: %w", err)
	}
	if err := validatePatterns(ignores); err != nil {
		return nil, fmt.Errorf("watch: invalid ignore pattern: %w", err)
	}

	f := &Filter{
		roots:   roots,
		filters: filters,
		ignores: append(append([]string(nil), defaultIgnores...), ignores...),
	}

	rules, err := discoverIgnoreFiles(vcsRoots, ".gitignore")
	if err != nil {
		return nil, err
	}
	f.rules = append(f.rules, rules...)

	rules, err = discoverIgnoreFiles(genericRoots, ".ignore")
	if err != nil {
		return nil, err
	}
	f.rules = append(f.rules, rules...)

	return f, nil
}

// IsExcluded reports whether path should be hidden from the watch loop. A
// path is excluded when a filter list is configured and the path matches
// none of it, or when any ignore glob or discovered ignore-file rule
// matches it.
func (f *Filter) IsExcluded(path string) bool {
	rooted := f.relativize(path)

	if len(f.filters) > 0 && !matchesAny(f.filters, rooted) {
		return true
	}
	if matchesAny(f.ignores, rooted) {
		return true
	}
	for _, r := range f.rules {
		rel, err := filepath.Rel(r.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if r.matcher.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// relativize rewrites path relative to the watched root containing it,
// slash-normalized for glob matching. A path under none of the roots is
// matched as-is.
func (f *Filter) relativize(path string) string {
	for _, root := range f.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func matchesAny(patterns []string, normalized string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("%q: %w", pat, err)
		}
	}
	return nil
}

// discoverIgnoreFiles walks each root looking for fileName (".gitignore" or
// ".ignore") and compiles one matcher per file found, rooted at that file's
// directory. Unreadable or empty files are skipped rather than aborting
// the whole walk, matching the watch package's general policy of degrading
// gracefully around inaccessible paths.
func discoverIgnoreFiles(roots []string, fileName string) ([]rootedIgnore, error) {
	var rules []rootedIgnore
	for _, root := range roots {
		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
			if walkDirErr != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil //nolint:nilerr // best-effort discovery
			}
			if d.IsDir() || d.Name() != fileName {
				return nil
			}
			lines, err := readIgnoreLines(path)
			if err != nil {
				return nil //nolint:nilerr // unreadable ignore file: skip, don't abort
			}
			if len(lines) == 0 {
				return nil
			}
			m := ignore.CompileIgnoreLines(lines...)
			rules = append(rules, rootedIgnore{dir: filepath.Dir(path), matcher: m})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("watch: discover %s under %q: %w", fileName, root, walkErr)
		}
	}
	return rules, nil
}

func readIgnoreLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}
