// SPDX-License-Identifier: MPL-2.0

package execwatch

import (
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"watchexec/internal/procman"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sleepyOptions(t *testing.T, seconds string, policy BusyPolicy) Options {
	t.Helper()
	if runtime.GOOS == "windows" {
		return Options{Cmd: []string{"ping", "-n", "5", "127.0.0.1"}, OnBusyUpdate: policy}
	}
	return Options{Cmd: []string{"sleep", seconds}, OnBusyUpdate: policy}
}

func waitUntilRunning(t *testing.T, slot *procman.Slot) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if running, _ := slot.IsRunning(); running {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("child never reported running")
}

func TestHandler_OnUpdate_SpawnsWhenIdle(t *testing.T) {
	t.Parallel()

	slot := procman.NewSlot()
	h, err := New(Options{Cmd: []string{"true"}}, slot, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if runtime.GOOS == "windows" {
		t.Skip("true(1) is unix-specific")
	}

	cont, err := h.OnUpdate(nil)
	if err != nil {
		t.Fatalf("OnUpdate: %v", err)
	}
	if !cont {
		t.Fatal("OnUpdate returned cont=false, want true")
	}
	if err := slot.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestHandler_OnUpdate_DoNothingWhileBusy(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("sleep(1) is unix-specific")
	}

	slot := procman.NewSlot()
	h, err := New(sleepyOptions(t, "0.3", DoNothing), slot, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := h.OnUpdate(nil); err != nil {
		t.Fatalf("first OnUpdate: %v", err)
	}
	waitUntilRunning(t, slot)
	firstPID := slot.PID()

	if _, err := h.OnUpdate(nil); err != nil {
		t.Fatalf("second OnUpdate: %v", err)
	}
	if slot.PID() != firstPID {
		t.Fatalf("PID changed from %d to %d, DoNothing should leave the running child alone", firstPID, slot.PID())
	}

	_ = slot.Wait()
}

func TestHandler_OnUpdate_RestartReplacesRunningChild(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("sleep(1) is unix-specific")
	}

	slot := procman.NewSlot()
	h, err := New(sleepyOptions(t, "5", Restart), slot, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := h.OnUpdate(nil); err != nil {
		t.Fatalf("first OnUpdate: %v", err)
	}
	waitUntilRunning(t, slot)
	firstPID := slot.PID()

	if _, err := h.OnUpdate(nil); err != nil {
		t.Fatalf("second OnUpdate: %v", err)
	}
	if slot.PID() == firstPID {
		t.Fatal("Restart should have replaced the running child with a new one")
	}

	_ = slot.Kill()
	_ = slot.Wait()
}

func TestHandler_Once_StopsAfterFirstRun(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("true(1) is unix-specific")
	}

	slot := procman.NewSlot()
	h, err := New(Options{Cmd: []string{"true"}, Once: true}, slot, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cont, err := h.OnUpdate(nil)
	if err != nil {
		t.Fatalf("OnUpdate: %v", err)
	}
	if cont {
		t.Fatal("Once should report cont=false after the run completes")
	}
}

func TestHandler_New_RejectsUnknownSignal(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Cmd: []string{"true"}, Signal: "NOTASIGNAL"}, procman.NewSlot(), testLogger())
	if err == nil {
		t.Fatal("New should reject an unresolvable signal name")
	}
}
