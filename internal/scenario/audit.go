package scenario

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Audit opens a public fingerprinting page with the launch profile of the
// named scenario, so the flags can be checked without the dashboard.
// Visible profiles only; there is nothing to inspect in a headless window.
func Audit(profileOf string) (Scenario, error) {
	base, err := Lookup(profileOf)
	if err != nil {
		return Scenario{}, err
	}

	return Scenario{
		Name:   "audit",
		Header: fmt.Sprintf("FINGERPRINT AUDIT (%s profile)", base.Name),
		Intro: []string{
			"Opens a public bot-detection test page with the same launch flags.",
		},
		Ready:     "Ready to open the audit page?",
		Launching: "Initializing Chrome...",
		Profile: func(cfg *config.Config) browser.Profile {
			p := base.Profile(cfg)
			p.Headless = false
			return p
		},
		Body: runAudit,
	}, nil
}

func runAudit(ctx context.Context, env *Env) error {
	url := env.Config.Audit.URL
	env.Console.Step("Navigating to %s...", url)
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	reportSignals(ctx, env)
	return env.Console.Pause(ctx, "Inspect the audit page, then press Enter to close the browser.")
}
