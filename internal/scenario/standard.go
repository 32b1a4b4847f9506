package scenario

import (
	"context"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Standard is a basic scraper that makes no attempt to hide
func Standard() Scenario {
	return Scenario{
		Key:    "1",
		Name:   "standard",
		Label:  "Standard Bot (Basic Automation)",
		Header: "SCENARIO 1: Standard Automation Bot",
		Intro: []string{
			"This represents a basic scraper attempting to access the site.",
			"It has no stealth measures and announces itself as automated software.",
		},
		Ready:     "Ready to launch Standard Bot?",
		Launching: "Initializing Chrome...",
		Profile: func(*config.Config) browser.Profile {
			return browser.Standard()
		},
		Body: runStandard,
	}
}

func runStandard(ctx context.Context, env *Env) error {
	if err := navigate(ctx, env); err != nil {
		return err
	}

	env.Console.Info("Bot is now on the page. BLADE should detect 'Selenium' or 'Automation'.")
	reportSignals(ctx, env)

	return env.Console.Pause(ctx, "Observe the red 'DETECTED' flags on the dashboard.")
}
