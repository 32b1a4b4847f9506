package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Runner gives each scenario its own browser and always takes it away again
type Runner struct {
	env      *Env
	launcher Launcher
}

// NewRunner creates a runner
func NewRunner(env *Env, launcher Launcher) *Runner {
	return &Runner{env: env, launcher: launcher}
}

// Run narrates sc, launches its browser, runs the body and closes the
// browser. Body errors are printed and returned; the browser is closed
// either way.
func (r *Runner) Run(ctx context.Context, sc Scenario) error {
	c := r.env.Console
	cfg := r.env.Config

	c.Header(sc.Header)
	for _, line := range sc.Intro {
		c.Info("%s", line)
	}

	if err := c.Pause(ctx, sc.Ready); err != nil {
		return err
	}

	profile := sc.Profile(cfg).
		WithWindow(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight).
		WithExecPath(cfg.Browser.ExecPath).
		WithNoSandbox(cfg.Browser.NoSandbox)

	c.Step("%s", sc.Launching)
	sess, err := r.launcher.Launch(ctx, profile)
	if err != nil {
		return r.report(sc, err)
	}

	defer func() {
		c.Step("Closing browser...")
		if err := sess.Close(); err != nil {
			r.env.Logger.Debug("browser close", "scenario", sc.Name, "err", err)
		}
	}()

	runCtx := sess.Context()
	// Unattended runs have nobody to notice a hung page
	if !c.Pausing() && cfg.Timing.ScenarioTimeout.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, cfg.Timing.ScenarioTimeout.Duration)
		defer cancel()
	}

	start := time.Now()
	if err := sc.Body(runCtx, r.env); err != nil {
		return r.report(sc, err)
	}

	r.env.Logger.Info("scenario finished", "scenario", sc.Name, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) report(sc Scenario, err error) error {
	r.env.Console.Fail(err)
	r.env.Logger.Error("scenario failed", "scenario", sc.Name, "err", err)
	return reportedError{err}
}

// reportedError marks an error the runner has already shown the observer
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// Reported reports whether err was already printed by a Runner
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Config returns the configuration scenarios run with
func (r *Runner) Config() *config.Config {
	return r.env.Config
}
