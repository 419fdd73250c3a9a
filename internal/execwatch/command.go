// SPDX-License-Identifier: MPL-2.0

package execwatch

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"watchexec/internal/pathenv"
	"watchexec/internal/watch"
)

// Shell selects how the configured command is turned into an *exec.Cmd.
type Shell string

const (
	// ShellNone execs cmd's first argument directly, with the rest as its
	// argv. No shell features (pipes, globs, env expansion) are
	// available; this is the lowest-surprise default.
	ShellNone Shell = "none"
	// ShellDefault picks /bin/sh -c on POSIX and "cmd /C" on Windows,
	// giving the command string normal shell interpretation.
	ShellDefault Shell = "default"
)

// toCommand builds the *exec.Cmd for one invocation of cmd, per sh.
func (sh Shell) toCommand(cmd []string) (*exec.Cmd, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("execwatch: no command configured")
	}

	switch sh {
	case "", ShellNone:
		return exec.Command(cmd[0], cmd[1:]...), nil
	case ShellDefault:
		return defaultShellCommand(cmd), nil
	default:
		// Any other value names an explicit shell executable (e.g.
		// "bash", "zsh", "/usr/local/bin/fish") invoked with -c and the
		// joined command line.
		return exec.Command(string(sh), "-c", joinShellWords(cmd)), nil
	}
}

func defaultShellCommand(cmd []string) *exec.Cmd {
	line := joinShellWords(cmd)
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", line)
	}
	return exec.Command("/bin/sh", "-c", line)
}

func joinShellWords(cmd []string) string {
	line := ""
	for i, w := range cmd {
		if i > 0 {
			line += " "
		}
		line += w
	}
	return line
}

// buildCommand assembles the *exec.Cmd for one spawn: shell.toCommand
// first, then environment enrichment from the triggering ops unless
// NoEnvironment suppresses it.
func buildCommand(opts Options, ops []watch.PathOp) (*exec.Cmd, error) {
	cmd, err := opts.Shell.toCommand(opts.Cmd)
	if err != nil {
		return nil, err
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if !opts.NoEnvironment {
		for _, v := range pathenv.Collect(ops) {
			cmd.Env = append(cmd.Env, v.Name+"="+v.Value)
		}
	}

	return cmd, nil
}
