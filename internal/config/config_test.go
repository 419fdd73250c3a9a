// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoad_NoFileFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("Paths = %v, want [.]", cfg.Paths)
	}
	if !cfg.UseProcessGroup {
		t.Error("UseProcessGroup default should be true")
	}
	if cfg.OnBusyUpdate != "do-nothing" {
		t.Errorf("OnBusyUpdate = %q, want do-nothing", cfg.OnBusyUpdate)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	contents := "paths = [\"src\", \"test\"]\non_busy_update = \"restart\"\nverbose = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Paths) != 2 || cfg.Paths[0] != "src" || cfg.Paths[1] != "test" {
		t.Errorf("Paths = %v, want [src test]", cfg.Paths)
	}
	if cfg.OnBusyUpdate != "restart" {
		t.Errorf("OnBusyUpdate = %q, want restart", cfg.OnBusyUpdate)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true from the file")
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestDir_RespectsXDGConfigHome(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("Dir does not consult XDG_CONFIG_HOME on windows or darwin")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	want := filepath.Join(dir, AppName)
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}
