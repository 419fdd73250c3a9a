// SPDX-License-Identifier: MPL-2.0

package watch

import "strings"

// OpKind is a bitset describing the kind(s) of change a backend reported
// for one path. A single notification can carry more than one bit (e.g. an
// fsnotify event reporting both Write and Chmod becomes Write|Chmod).
type OpKind uint8

const (
	Create OpKind = 1 << iota
	Write
	Remove
	Rename
	Chmod
	Rescan
	Meta
)

// IsMeta reports whether op describes a metadata-only change: nothing but
// the Meta and Chmod bits is set. A chmod is itself a metadata-only change
// (permissions, ownership, access time), so a Chmod-only op counts; an op
// carrying a real content change alongside metadata does not.
func (op OpKind) IsMeta() bool {
	return op != 0 && op&^(Chmod|Meta) == 0
}

// Has reports whether op carries every bit in want.
func (op OpKind) Has(want OpKind) bool {
	return op&want == want
}

func (op OpKind) String() string {
	if op == 0 {
		return "NONE"
	}
	var parts []string
	for _, n := range opNames {
		if op.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

var opNames = []struct {
	bit  OpKind
	name string
}{
	{Create, "CREATE"},
	{Write, "WRITE"},
	{Remove, "REMOVE"},
	{Rename, "RENAME"},
	{Chmod, "CHMOD"},
	{Rescan, "RESCAN"},
	{Meta, "META"},
}

// Event is a single notification from a Backend. Path is empty when the
// backend could not determine an affected path; such events are discarded
// by WaitFS without advancing its acquisition phase. OpErr, when non-nil,
// represents a backend-level failure associated with this notification;
// Op is meaningless when OpErr is set.
type Event struct {
	Path      string
	HasPath   bool
	Op        OpKind
	OpErr     error
	Cookie    uint32
	HasCookie bool
}

// PathOp is the unit of change the debouncer hands to callers: a path, the
// (optional) operation bitset reported for it, and the (optional) rename
// cookie correlating paired rename-from/rename-to events. Equality and
// hashing use all three fields, so the same path reported with two
// different ops within one debounce window produces two distinct PathOps:
// downstream environment enrichment wants to see every kind of change
// that touched a path, not just the first.
type PathOp struct {
	Path      string
	Op        OpKind
	HasOp     bool
	Cookie    uint32
	HasCookie bool
}

// NewPathOp builds a PathOp from an event's path plus the optional op and
// cookie carried by that event.
func NewPathOp(path string, op OpKind, hasOp bool, cookie uint32, hasCookie bool) PathOp {
	return PathOp{
		Path:      path,
		Op:        op,
		HasOp:     hasOp,
		Cookie:    cookie,
		HasCookie: hasCookie,
	}
}
