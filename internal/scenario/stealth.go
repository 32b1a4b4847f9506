package scenario

import (
	"context"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Stealth masks the obvious automation signals: a desktop user agent, no
// automation switches, and a navigator.webdriver getter that returns
// undefined
func Stealth() Scenario {
	return Scenario{
		Key:    "3",
		Name:   "stealth",
		Label:  "Stealth Attempt (Evasion Techniques)",
		Header: "SCENARIO 3: Stealth/Evasion Attempt",
		Intro: []string{
			"This represents a sophisticated actor trying to hide.",
		},
		Ready:     "Ready to launch Stealth Bot?",
		Launching: "Initializing Stealth Chrome (Modified Flags)...",
		Profile: func(cfg *config.Config) browser.Profile {
			return browser.Stealth(cfg.Stealth.UserAgent)
		},
		Body: runStealth,
	}
}

func runStealth(ctx context.Context, env *Env) error {
	if err := navigate(ctx, env); err != nil {
		return err
	}

	env.Console.Info("Bot has attempted to mask its identity.")
	reportSignals(ctx, env)
	env.Console.Info("See if BLADE's deep heuristics (Proto, Consistency) still catch it.")

	return env.Console.Pause(ctx, "Analyze the results.")
}
