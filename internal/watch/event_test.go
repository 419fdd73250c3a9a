// SPDX-License-Identifier: MPL-2.0

package watch

import "testing"

func TestOpKind_Has(t *testing.T) {
	t.Parallel()

	op := Create | Write
	if !op.Has(Create) {
		t.Error("Create|Write should Has(Create)")
	}
	if !op.Has(Write) {
		t.Error("Create|Write should Has(Write)")
	}
	if op.Has(Remove) {
		t.Error("Create|Write should not Has(Remove)")
	}
	if !op.Has(Create | Write) {
		t.Error("Create|Write should Has(Create|Write)")
	}
}

func TestOpKind_IsMeta(t *testing.T) {
	t.Parallel()

	if !Meta.IsMeta() {
		t.Error("Meta.IsMeta() = false, want true")
	}
	if !Chmod.IsMeta() {
		t.Error("Chmod.IsMeta() = false, want true: a chmod is a metadata-only change")
	}
	if !(Chmod | Meta).IsMeta() {
		t.Error("(Chmod|Meta).IsMeta() = false, want true")
	}
	if (Meta | Write).IsMeta() {
		t.Error("(Meta|Write).IsMeta() = true, want false")
	}
	if (Chmod | Write).IsMeta() {
		t.Error("(Chmod|Write).IsMeta() = true, want false")
	}
	if Write.IsMeta() {
		t.Error("Write.IsMeta() = true, want false")
	}
	if OpKind(0).IsMeta() {
		t.Error("OpKind(0).IsMeta() = true, want false")
	}
}

func TestOpKind_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		op   OpKind
		want string
	}{
		{0, "NONE"},
		{Write, "WRITE"},
		{Create | Write, "CREATE|WRITE"},
	}
	for _, c := range cases {
		if got := c.op.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", c.op, got, c.want)
		}
	}
}

func TestPathOp_EqualityIncludesOpAndCookie(t *testing.T) {
	t.Parallel()

	a := NewPathOp("/a", Write, true, 0, false)
	b := NewPathOp("/a", Chmod, true, 0, false)
	if a == b {
		t.Fatal("PathOps with different Op should not be equal")
	}

	c := NewPathOp("/a", Rename, true, 1, true)
	d := NewPathOp("/a", Rename, true, 2, true)
	if c == d {
		t.Fatal("PathOps with different Cookie should not be equal")
	}

	e := NewPathOp("/a", Write, true, 0, false)
	if a != e {
		t.Fatal("identical PathOps should compare equal")
	}
}
