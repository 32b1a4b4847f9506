package scenario

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Headless is a server-side crawler with no window, leaving a screenshot
// behind as proof of what it saw
func Headless() Scenario {
	return Scenario{
		Key:    "2",
		Name:   "headless",
		Label:  "Headless Bot (Server-side Scraper)",
		Header: "SCENARIO 2: Headless Scraper",
		Intro: []string{
			"This represents a server-side bot running without a UI.",
			"Common for mass crawling and data harvesting.",
		},
		Ready:     "Ready to launch Headless Bot?",
		Launching: "Initializing Headless Chrome...",
		Profile: func(*config.Config) browser.Profile {
			return browser.Headless()
		},
		Body: runHeadless,
	}
}

func runHeadless(ctx context.Context, env *Env) error {
	c := env.Console
	timing := env.Config.Timing

	if err := navigate(ctx, env); err != nil {
		return err
	}

	c.Step("Scrolling to bottom to capture detection results...")
	err := chromedp.Run(ctx,
		chromedp.Sleep(timing.PageSettle.Duration),
		chromedp.Evaluate(ScrollToBottomJS, nil),
		chromedp.Sleep(timing.ScrollSettle.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}

	path := env.Config.Headless.ScreenshotPath
	c.Step("Taking screenshot '%s'...", path)
	if err := browser.SaveScreenshot(ctx, path); err != nil {
		return err
	}
	c.Success("Screenshot saved!")

	reportSignals(ctx, env)
	c.Info("Bot is active in background.")

	return c.Pause(ctx, "Check BLADE dashboard for 'Headless' detection.")
}
