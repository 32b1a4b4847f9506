package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/ibeckermayer/blade-demo/internal/config"
	"github.com/ibeckermayer/blade-demo/internal/console"
	"github.com/ibeckermayer/blade-demo/internal/scenario"
	"github.com/ibeckermayer/blade-demo/internal/scheduler"
)

// Title is shown in the menu banner
const Title = "BLADE DEMONSTRATION  SCRIPT"

// Runner runs one scenario end to end
type Runner interface {
	Run(ctx context.Context, sc scenario.Scenario) error
}

// App ties the menu, the scenario runner and the scheduler together.
type App struct {
	config  *config.Config
	console *console.Console
	runner  Runner
	logger  *log.Logger

	// swapped in tests
	openURL  func(string) error
	openFile func(string) error
}

// New creates a new App instance.
func New(cfg *config.Config, c *console.Console, runner Runner, logger *log.Logger) *App {
	return &App{
		config:   cfg,
		console:  c,
		runner:   runner,
		logger:   logger,
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
	}
}

// Menu shows the scenario menu until the observer quits, input ends or ctx
// is cancelled. Scenario failures are reported by the runner and do not end
// the loop.
func (a *App) Menu(ctx context.Context) error {
	c := a.console
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Clear()
		c.Banner(Title)
		for _, sc := range scenario.All() {
			c.Println(fmt.Sprintf("%s. %s", sc.Key, sc.Label))
		}
		c.Println("Q. Quit")

		choice, err := c.Prompt(ctx, "Select Scenario > ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		choice = strings.ToLower(choice)
		if choice == "q" {
			return nil
		}

		sc, ok := menuChoice(choice)
		if !ok {
			continue
		}

		if err := a.runner.Run(ctx, sc); err != nil {
			a.logger.Debug("back to menu", "scenario", sc.Name, "err", err)
		}
	}
}

func menuChoice(key string) (scenario.Scenario, bool) {
	for _, sc := range scenario.All() {
		if sc.Key == key {
			return sc, true
		}
	}
	return scenario.Scenario{}, false
}

// RunScenario runs a single scenario by key or name
func (a *App) RunScenario(ctx context.Context, keyOrName string) error {
	sc, err := scenario.Lookup(keyOrName)
	if err != nil {
		return err
	}
	return a.runner.Run(ctx, sc)
}

// Audit opens the fingerprint audit page with a scenario's launch profile
func (a *App) Audit(ctx context.Context, profileOf string) error {
	sc, err := scenario.Audit(profileOf)
	if err != nil {
		return err
	}
	return a.runner.Run(ctx, sc)
}

// Schedule replays a scenario on a cron schedule until ctx is cancelled.
// Pauses are turned off for the duration.
func (a *App) Schedule(ctx context.Context, keyOrName, spec string) error {
	sc, err := scenario.Lookup(keyOrName)
	if err != nil {
		return err
	}

	s, err := scheduler.New(a.config.Schedule.Timezone, a.logger)
	if err != nil {
		return err
	}

	a.console.SetPausing(false)
	err = s.AddJob(sc.Name, spec, func(context.Context) error {
		return a.runner.Run(ctx, sc)
	})
	if err != nil {
		return err
	}

	s.Start()
	for _, j := range s.ListJobs() {
		a.logger.Info("scheduled", "scenario", j.Name, "next", j.NextRun.Format("15:04:05"))
	}

	<-ctx.Done()
	s.RemoveJob(sc.Name)
	<-s.Stop().Done()
	return nil
}

// OpenDashboard opens the dashboard in the desktop browser, which is where
// the observer watches the verdicts come in.
func (a *App) OpenDashboard() error {
	a.logger.Info("opening dashboard", "url", a.config.BaseURL)
	return a.openURL(a.config.BaseURL)
}

// OpenScreenshot opens the headless scenario's screenshot
func (a *App) OpenScreenshot() error {
	path, err := filepath.Abs(a.config.Headless.ScreenshotPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no screenshot yet, run the headless scenario first: %w", err)
	}

	a.logger.Info("opening screenshot", "path", path)
	return a.openFile(path)
}

// OpenConfig opens the config file in the default editor, writing the
// current settings first if there is no file yet. An empty path means the
// default location.
func (a *App) OpenConfig(path string) error {
	save := func() error { return a.config.SaveFile(path) }
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return err
		}
		save = a.config.Save
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := save(); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
		a.logger.Info("created default config", "path", path)
	}
	return a.openFile(path)
}
