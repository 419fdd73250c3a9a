// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"testing"
	"time"

	"watchexec/internal/wxerr"
)

func mustFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := NewFilter(nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	return f
}

func TestWaitFS_SingleEventAfterDebounce(t *testing.T) {
	t.Parallel()

	rx := make(chan Event, 1)
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}

	ops, err := WaitFS(rx, mustFilter(t), 20*time.Millisecond, false)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 1 || ops[0].Path != "/w/a.txt" {
		t.Fatalf("ops = %+v, want one PathOp for /w/a.txt", ops)
	}
}

func TestWaitFS_CoalescesBurstWithinDebounce(t *testing.T) {
	t.Parallel()

	rx := make(chan Event, 4)
	go func() {
		rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}
		time.Sleep(5 * time.Millisecond)
		rx <- Event{Path: "/w/b.txt", HasPath: true, Op: Write}
	}()

	ops, err := WaitFS(rx, mustFilter(t), 50*time.Millisecond, false)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("ops = %+v, want 2 coalesced PathOps", ops)
	}
}

func TestWaitFS_NoMetaSuppressesChmodDuringAcquisition(t *testing.T) {
	t.Parallel()

	// A chmod arrives exactly as the backend reports it: the Chmod bit,
	// not a synthetic Meta.
	rx := make(chan Event, 2)
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Chmod}
	rx <- Event{Path: "/w/b.txt", HasPath: true, Op: Write}

	ops, err := WaitFS(rx, mustFilter(t), 20*time.Millisecond, true)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 1 || ops[0].Path != "/w/b.txt" {
		t.Fatalf("ops = %+v, want only the WRITE on /w/b.txt", ops)
	}
}

func TestWaitFS_NoMetaSuppressesChmodDuringCooloff(t *testing.T) {
	t.Parallel()

	rx := make(chan Event, 3)
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}
	rx <- Event{Path: "/w/b.txt", HasPath: true, Op: Chmod}
	rx <- Event{Path: "/w/c.txt", HasPath: true, Op: Chmod | Write}

	ops, err := WaitFS(rx, mustFilter(t), 20*time.Millisecond, true)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 2 || ops[0].Path != "/w/a.txt" || ops[1].Path != "/w/c.txt" {
		t.Fatalf("ops = %+v, want the WRITE and the mixed CHMOD|WRITE, not the bare CHMOD", ops)
	}
}

func TestWaitFS_ExcludedPathNeverSurfaces(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(nil, []string{"**/*.tmp"}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	rx := make(chan Event, 2)
	rx <- Event{Path: "/w/a.tmp", HasPath: true, Op: Write}
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}

	ops, err := WaitFS(rx, f, 20*time.Millisecond, false)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 1 || ops[0].Path != "/w/a.txt" {
		t.Fatalf("ops = %+v, want only /w/a.txt", ops)
	}
}

func TestWaitFS_ClosedChannelDuringAcquisitionIsFatal(t *testing.T) {
	t.Parallel()

	rx := make(chan Event)
	close(rx)

	_, err := WaitFS(rx, mustFilter(t), 20*time.Millisecond, false)
	if !errors.Is(err, wxerr.ErrBackendReceive) {
		t.Fatalf("err = %v, want wxerr.ErrBackendReceive", err)
	}
}

func TestWaitFS_ClosedChannelDuringCooloffReturnsCollected(t *testing.T) {
	t.Parallel()

	rx := make(chan Event, 2)
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}
	close(rx)

	ops, err := WaitFS(rx, mustFilter(t), 50*time.Millisecond, false)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("ops = %+v, want the one PathOp seen before close", ops)
	}
}

func TestWaitFS_DuplicatePathOpNotDoubleCounted(t *testing.T) {
	t.Parallel()

	rx := make(chan Event, 3)
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}
	rx <- Event{Path: "/w/a.txt", HasPath: true, Op: Write}

	ops, err := WaitFS(rx, mustFilter(t), 20*time.Millisecond, false)
	if err != nil {
		t.Fatalf("WaitFS: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("ops = %+v, want the repeated identical PathOp collapsed to one", ops)
	}
}
