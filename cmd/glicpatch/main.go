// Package main is the CLI entry point for glicpatch.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/config"
	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
	"github.com/eliteGoblin/focusd/glicpatch/internal/infra"
	"github.com/eliteGoblin/focusd/glicpatch/internal/patcher"
	"github.com/eliteGoblin/focusd/glicpatch/internal/policy"
	"github.com/eliteGoblin/focusd/glicpatch/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd(defaultEnvironment()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// environment is everything the run reads from the host.
type environment struct {
	goos       string
	lookupEnv  policy.EnvLookup
	newControl func(backend string) (domain.ProcessControl, error)
}

func defaultEnvironment() environment {
	return environment{
		goos:       runtime.GOOS,
		lookupEnv:  os.LookupEnv,
		newControl: newProcessControl,
	}
}

// options holds flags that select the mode rather than tune it.
type options struct {
	killChrome bool
	restore    bool
	configFile string
}

func newRootCmd(env environment) *cobra.Command {
	v := config.New()
	var opts options

	cmd := &cobra.Command{
		Use:   "glicpatch",
		Short: "Enable Gemini in Chrome by patching its Local State",
		Long: `glicpatch edits Chrome's "Local State" file so the Gemini (glic)
integration becomes available: is_glic_eligible is set to true and both
variations country fields are set to "us".

A backup is written next to the file as "Local State.bak" before any change.
Chrome must not be running; pass --kill-chrome to close it automatically.
Use --restore to copy the backup back.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, opts.configFile)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if err := run(cmd, opts, cfg, env, logger); err != nil {
				logger.Error("program execution failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.killChrome, "kill-chrome", "k", false, "Close Chrome automatically if it is running")
	flags.BoolVarP(&opts.restore, "restore", "r", false, "Restore Local State from the backup")
	flags.StringVar(&opts.configFile, "config", "", "JSON settings file")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.String("backend", config.BackendExec, "Process backend: exec or gopsutil")
	flags.Duration("poll-interval", 300*time.Millisecond, "Delay between checks while waiting for Chrome to exit")
	flags.Duration("stop-timeout", 3*time.Second, "How long to wait for Chrome to exit per stop attempt")
	if err := bindFlags(v, cmd); err != nil {
		panic(err)
	}

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// flagKeys maps settings keys to the flags that override them.
var flagKeys = map[string]string{
	config.KeyDebug:        "debug",
	config.KeyLogFile:      "log-file",
	config.KeyBackend:      "backend",
	config.KeyPollInterval: "poll-interval",
	config.KeyStopTimeout:  "stop-timeout",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.Flags()
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if jsonOutput {
				fmt.Fprintf(out, `{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
					Version, Commit, BuildTime)
			} else {
				fmt.Fprintf(out, "glicpatch %s (commit: %s, built: %s)\n",
					Version, Commit, BuildTime)
			}
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	return cmd
}

// run resolves the platform, passes the not-running gate, then patches or restores.
func run(cmd *cobra.Command, opts options, cfg *config.Config, env environment, logger *zap.Logger) error {
	logger.Info("Chrome Gemini patch tool started",
		zap.Bool("kill_chrome", opts.killChrome),
		zap.Bool("restore", opts.restore),
		zap.String("backend", cfg.Backend))
	logger.Debug("stop settings",
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("stop_timeout", cfg.StopTimeout))

	kind, err := infra.OSKindFor(env.goos)
	if err != nil {
		return err
	}
	logger.Info("detected OS", zap.String("os", string(kind)))

	var browser policy.BrowserPolicy = policy.NewChromePolicyWithEnv(env.lookupEnv)
	configPath, err := browser.ConfigPath(kind)
	if err != nil {
		return err
	}
	logger.Info("Chrome config path",
		zap.String("browser", browser.ID()),
		zap.String("name", browser.Name()),
		zap.String("path", configPath))

	query, err := browser.ProcessQuery(kind)
	if err != nil {
		return err
	}

	fs := infra.NewFileSystemManager()
	backups := infra.NewBackupManager(fs, logger)
	backupPath, err := backups.BackupPath(configPath)
	if err != nil {
		return err
	}
	logger.Info("backup path", zap.String("path", backupPath))

	control, err := env.newControl(cfg.Backend)
	if err != nil {
		return err
	}

	monitor := usecase.NewBrowserMonitor(kind, query, control, logger)
	terminator := usecase.NewBrowserTerminator(
		usecase.TerminatorConfig{PollInterval: cfg.PollInterval, Timeout: cfg.StopTimeout},
		kind,
		query,
		control,
		monitor,
		logger,
	)
	unlocker := usecase.NewUnlocker(monitor, terminator, backups, fs, patcher.New(), logger)

	if err := unlocker.EnsureNotRunning(opts.killChrome); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.restore {
		if err := unlocker.Restore(configPath); err != nil {
			return err
		}
		printRestored(out)
		return nil
	}

	report, err := unlocker.Patch(configPath)
	if err != nil {
		return err
	}
	printReport(out, report, logger)
	return nil
}

func newProcessControl(backend string) (domain.ProcessControl, error) {
	switch backend {
	case config.BackendExec:
		return infra.NewExecProcessControl(), nil
	case config.BackendGopsutil:
		return infra.NewProcessManager(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, backend)
	}
}
