// Command blade-demo drives Chrome through scripted bot scenarios against
// the BLADE detection dashboard and narrates what should show up there.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/blade-demo/internal/app"
	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
	"github.com/ibeckermayer/blade-demo/internal/console"
	"github.com/ibeckermayer/blade-demo/internal/logging"
	"github.com/ibeckermayer/blade-demo/internal/scenario"
)

var (
	flagConfig   string
	flagBaseURL  string
	flagLogLevel string
	flagNoPause  bool
	flagCron     string
	flagProfile  string
)

// env is built once per invocation in PersistentPreRunE
var env struct {
	cfg     *config.Config
	logger  *log.Logger
	console *console.Console
	app     *app.App
}

var rootCmd = &cobra.Command{
	Use:   "blade-demo",
	Short: "Walk bot scenarios through the BLADE dashboard",
	Long: `Drives Chrome through four scripted clients against the detection
dashboard, pausing between steps so an audience can watch the verdicts:

  1. Standard bot      stock automated Chrome
  2. Headless bot      no window, leaves headless_proof.png behind
  3. Stealth attempt   masked user agent, flags and navigator.webdriver
  4. Playground        fills the dashboard form at inhuman speed

With no subcommand the interactive menu is shown.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.app.Menu(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:       "run <scenario>",
	Short:     "Run a single scenario",
	Example:   "  blade-demo run stealth\n  blade-demo run 2 --no-pause",
	Args:      cobra.ExactArgs(1),
	ValidArgs: scenario.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.app.RunScenario(cmd.Context(), args[0])
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <scenario>",
	Short: "Replay a scenario on a cron schedule until interrupted",
	Example: `  blade-demo schedule headless
  blade-demo schedule playground --cron "@every 10m"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := flagCron
		if spec == "" {
			spec = env.cfg.Schedule.Cron
		}
		return env.app.Schedule(cmd.Context(), args[0], spec)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Open a fingerprint audit page with a scenario's browser profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.app.Audit(cmd.Context(), flagProfile)
	},
}

var openCmd = &cobra.Command{
	Use:       "open <config|dashboard|screenshot>",
	Short:     "Open the config file, the dashboard or the latest screenshot",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"config", "dashboard", "screenshot"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "config":
			return env.app.OpenConfig(flagConfig)
		case "dashboard":
			return env.app.OpenDashboard()
		case "screenshot":
			return env.app.OpenScreenshot()
		default:
			return fmt.Errorf("unknown target: %s", args[0])
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: <user config dir>/blade-demo/config.toml)")
	pf.StringVar(&flagBaseURL, "base-url", "", "dashboard URL (default "+config.DefaultBaseURL+")")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flagNoPause, "no-pause", false, "do not wait for Enter between steps")

	scheduleCmd.Flags().StringVar(&flagCron, "cron", "", "cron spec (default from config)")
	auditCmd.Flags().StringVarP(&flagProfile, "profile", "p", "stealth",
		"scenario whose profile to audit: "+strings.Join(scenario.Names(), ", "))

	rootCmd.AddCommand(runCmd, scheduleCmd, auditCmd, openCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(flagConfig)
	if errors.Is(err, fs.ErrNotExist) && cmd == openCmd {
		// open config writes the file it was pointed at
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.Logging.Level
	logger := logging.New(opts)

	c := console.Stdio()
	c.SetPausing(!flagNoPause)

	runner := scenario.NewRunner(
		&scenario.Env{Console: c, Logger: logger, Config: cfg},
		scenario.Chrome(browser.NewLauncher(logger)),
	)

	env.cfg = cfg
	env.logger = logger
	env.console = c
	env.app = app.New(cfg, c, runner, logger)
	return nil
}

// execute runs the command tree and prints any error the scenario runner
// has not already shown
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !scenario.Reported(err) && !errors.Is(err, context.Canceled) {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A second Ctrl-C gets the default handling and kills the process
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
