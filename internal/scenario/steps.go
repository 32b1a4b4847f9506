package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/blade-demo/internal/probe"
)

// navigate loads the dashboard
func navigate(ctx context.Context, env *Env) error {
	url := env.Config.BaseURL
	env.Console.Step("Navigating to %s...", url)
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// reportSignals tells the observer which automation signals the page itself
// can read. A failed probe is logged and otherwise ignored.
func reportSignals(ctx context.Context, env *Env) {
	snap, err := probe.Take(ctx)
	if err != nil {
		env.Logger.Warn("signal probe failed", "err", err)
		return
	}

	env.Logger.Debug("client signals", "ua", snap.UserAgent, "webdriver", snap.Webdriver,
		"plugins", snap.Plugins, "languages", snap.Languages)

	if snap.Clean() {
		env.Console.Info("The page sees no obvious automation signals.")
		return
	}
	env.Console.Info("Signals visible to the page: %s", strings.Join(snap.Indicators(), "; "))
}
