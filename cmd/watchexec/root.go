// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"watchexec/internal/config"
	"watchexec/internal/execwatch"
	"watchexec/internal/procman"
	"watchexec/internal/watch"
)

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "watchexec -- command [args...]",
	Short: "Run a command, restarting it when watched paths change",
	Long: titleStyle.Render("watchexec") + subtitleStyle.Render(" - run a command, restarting it when watched paths change") + `

watchexec watches a set of paths and re-executes a command whenever a
matching path changes, debouncing rapid bursts of events into a single
run.

` + subtitleStyle.Render("Example:") + `
  watchexec -f '**/*.go' -- go test ./...`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var (
	flagPaths           []string
	flagFilters         []string
	flagIgnores         []string
	flagNoIgnore        bool
	flagNoVCSIgnore     bool
	flagPoll            bool
	flagPollInterval    time.Duration
	flagDebounce        time.Duration
	flagNoMeta          bool
	flagRunInitially    bool
	flagOnce            bool
	flagClearScreen     bool
	flagShell           string
	flagNoEnvironment   bool
	flagUseProcessGroup bool
	flagSignal          string
	flagOnBusyUpdate    string
	flagVerbose         bool
	flagConfigFile      string
)

func init() {
	cobra.OnInitialize(initConfig)

	defaults := config.Default()

	rootCmd.Flags().StringSliceVarP(&flagPaths, "watch", "w", defaults.Paths, "path to watch (repeatable)")
	rootCmd.Flags().StringSliceVarP(&flagFilters, "filter", "f", nil, "only trigger on paths matching this glob (repeatable)")
	rootCmd.Flags().StringSliceVarP(&flagIgnores, "ignore", "i", nil, "never trigger on paths matching this glob (repeatable)")
	rootCmd.Flags().BoolVar(&flagNoIgnore, "no-ignore", false, "don't honor .ignore or .gitignore files")
	rootCmd.Flags().BoolVar(&flagNoVCSIgnore, "no-vcs-ignore", false, "don't honor .gitignore files")
	rootCmd.Flags().BoolVar(&flagPoll, "poll", false, "use polling instead of filesystem events")
	rootCmd.Flags().DurationVar(&flagPollInterval, "poll-interval", defaults.PollInterval, "polling interval, when --poll is set")
	rootCmd.Flags().DurationVarP(&flagDebounce, "debounce", "d", defaults.Debounce, "debounce delay after the last detected change")
	rootCmd.Flags().BoolVar(&flagNoMeta, "no-meta", false, "ignore metadata-only change events (permissions, access time)")
	rootCmd.Flags().BoolVarP(&flagRunInitially, "run-initially", "r", false, "run the command once immediately, before watching")
	rootCmd.Flags().BoolVar(&flagOnce, "once", false, "run the command a single time and exit")
	rootCmd.Flags().BoolVarP(&flagClearScreen, "clear", "c", false, "clear the screen before each run")
	rootCmd.Flags().StringVar(&flagShell, "shell", defaults.Shell, `shell to run the command with: "none", "default", or a shell name`)
	rootCmd.Flags().BoolVar(&flagNoEnvironment, "no-environment", false, "don't set WATCHEXEC_* environment variables")
	rootCmd.Flags().BoolVar(&flagUseProcessGroup, "use-process-group", defaults.UseProcessGroup, "run the command in its own process group")
	rootCmd.Flags().StringVar(&flagSignal, "signal", "", "signal to send on restart/exit instead of SIGTERM")
	rootCmd.Flags().StringVar(&flagOnBusyUpdate, "on-busy-update", defaults.OnBusyUpdate, `what to do when a change arrives while the command is running: "do-nothing", "queue", "restart", or "signal"`)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default searches $XDG_CONFIG_HOME/watchexec/config.toml and ./config.toml)")
}

func initConfig() {
	loaded, err := config.Load(flagConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		loaded = config.Default()
	}
	cfg = loaded
}

// Execute runs the root command via fang for styled help/error output.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func versionString() string {
	if version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
}

func runRoot(cmd *cobra.Command, args []string) error {
	command := args
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		command = args[dash:]
	}
	if len(command) == 0 {
		return fmt.Errorf("watchexec: no command given; usage: watchexec [flags] -- cmd [args...]")
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true})
	if flagVerbose || (cfg != nil && cfg.Verbose) {
		logger.SetLevel(charmlog.DebugLevel)
	}

	flags := cmd.Flags()
	merge := func(name string, cfgVal, flagVal bool) bool {
		if flags.Changed(name) {
			return flagVal
		}
		return cfgVal
	}

	onBusyRaw := flagOnBusyUpdate
	if !flags.Changed("on-busy-update") && cfg != nil && cfg.OnBusyUpdate != "" {
		onBusyRaw = cfg.OnBusyUpdate
	}
	onBusy, ok := execwatch.ParseBusyPolicy(onBusyRaw)
	if !ok {
		return fmt.Errorf("watchexec: unrecognized --on-busy-update value %q", onBusyRaw)
	}

	shell := flagShell
	if !flags.Changed("shell") && cfg != nil && cfg.Shell != "" {
		shell = cfg.Shell
	}

	sig := flagSignal
	if !flags.Changed("signal") && cfg != nil {
		sig = cfg.Signal
	}

	pollInterval := flagPollInterval
	if !flags.Changed("poll-interval") && cfg != nil && cfg.PollInterval > 0 {
		pollInterval = cfg.PollInterval
	}
	debounce := flagDebounce
	if !flags.Changed("debounce") && cfg != nil && cfg.Debounce > 0 {
		debounce = cfg.Debounce
	}

	watchOpts := watch.Options{
		Paths:        mergeSlice(flags.Changed("watch"), flagPaths, cfg, func(c *config.Config) []string { return c.Paths }),
		Filters:      mergeSlice(flags.Changed("filter"), flagFilters, cfg, func(c *config.Config) []string { return c.Filters }),
		Ignores:      mergeSlice(flags.Changed("ignore"), flagIgnores, cfg, func(c *config.Config) []string { return c.Ignores }),
		NoIgnore:     merge("no-ignore", cfg != nil && cfg.NoIgnore, flagNoIgnore),
		NoVCSIgnore:  merge("no-vcs-ignore", cfg != nil && cfg.NoVCSIgnore, flagNoVCSIgnore),
		Poll:         merge("poll", cfg != nil && cfg.Poll, flagPoll),
		PollInterval: pollInterval,
		Debounce:     debounce,
		NoMeta:       merge("no-meta", cfg != nil && cfg.NoMeta, flagNoMeta),
		RunInitially: merge("run-initially", cfg != nil && cfg.RunInitially, flagRunInitially),
	}

	execOpts := execwatch.Options{
		Cmd:             command,
		Shell:           execwatch.Shell(shell),
		NoEnvironment:   merge("no-environment", cfg != nil && cfg.NoEnvironment, flagNoEnvironment),
		UseProcessGroup: merge("use-process-group", cfg == nil || cfg.UseProcessGroup, flagUseProcessGroup),
		Signal:          sig,
		OnBusyUpdate:    onBusy,
		Once:            merge("once", cfg != nil && cfg.Once, flagOnce),
		ClearScreen:     merge("clear", cfg != nil && cfg.ClearScreen, flagClearScreen),
	}

	slot := procman.NewSlot()
	plumber := procman.NewPlumber(slot)
	defer plumber.Detach()

	handler, err := execwatch.New(execOpts, slot, logger)
	if err != nil {
		return err
	}

	return watch.Watch(watchOpts, handler)
}

func mergeSlice(changed bool, flagVal []string, cfg *config.Config, from func(*config.Config) []string) []string {
	if changed || cfg == nil {
		return flagVal
	}
	if v := from(cfg); len(v) > 0 {
		return v
	}
	return flagVal
}
