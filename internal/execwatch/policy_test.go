// SPDX-License-Identifier: MPL-2.0

package execwatch

import "testing"

func TestParseBusyPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want BusyPolicy
	}{
		{"do-nothing", DoNothing},
		{"DoNothing", DoNothing},
		{"queue", Queue},
		{"QUEUE", Queue},
		{"restart", Restart},
		{"signal", Signal},
		{"  signal  ", Signal},
	}
	for _, c := range cases {
		got, ok := ParseBusyPolicy(c.in)
		if !ok {
			t.Errorf("ParseBusyPolicy(%q) failed to resolve", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("ParseBusyPolicy(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseBusyPolicy_Unknown(t *testing.T) {
	t.Parallel()

	if _, ok := ParseBusyPolicy("explode"); ok {
		t.Fatal("ParseBusyPolicy(\"explode\") succeeded, want failure")
	}
	if _, ok := ParseBusyPolicy(""); ok {
		t.Fatal("ParseBusyPolicy(\"\") succeeded, want failure (caller applies the default)")
	}
}

func TestBusyPolicy_String(t *testing.T) {
	t.Parallel()

	for _, p := range []BusyPolicy{DoNothing, Queue, Restart, Signal} {
		if p.String() == "unknown" {
			t.Errorf("BusyPolicy(%d).String() = unknown", p)
		}
	}
}
