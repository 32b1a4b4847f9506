package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
)

// Playground opens the dashboard's form page and fills it in far faster
// than a person could, to trip the behavioural checks
func Playground() Scenario {
	return Scenario{
		Key:    "4",
		Name:   "playground",
		Label:  "Behavioral Speed Test (Playground)",
		Header: "SCENARIO 4: Behavioral Analysis (Playground)",
		Intro: []string{
			"Demonstrating superhuman speed filling out forms.",
		},
		Ready:     "Ready to launch High-Speed Form Bot?",
		Launching: "Initializing Chrome...",
		Profile: func(*config.Config) browser.Profile {
			return browser.Standard()
		},
		Body: runPlayground,
	}
}

// clickPlaygroundByTextJS is the fallback when the nav XPath misses
var clickPlaygroundByTextJS = `
	(function() {
		const btn = Array.from(document.querySelectorAll('button'))
			.find(b => (b.textContent || '').includes('` + PlaygroundNavText + `'));
		if (!btn) return false;
		btn.click();
		return true;
	})()
`

func runPlayground(ctx context.Context, env *Env) error {
	c := env.Console
	timing := env.Config.Timing
	form := env.Config.Form

	if err := navigate(ctx, env); err != nil {
		return err
	}

	// Let the SPA mount before touching the nav
	if err := chromedp.Run(ctx, chromedp.Sleep(timing.AppMount.Duration)); err != nil {
		return err
	}

	c.Step("Clicking 'Playground' navigation...")
	if err := openPlayground(ctx, env); err != nil {
		return err
	}

	if err := chromedp.Run(ctx, chromedp.Sleep(timing.FormRender.Duration)); err != nil {
		return err
	}

	c.Step("Waiting for Playground form to load...")
	if err := waitFor(ctx, timing.FormWait.Duration, PlaygroundForm); err != nil {
		c.Info("Form not found within %s, checking page state...", timing.FormWait.Duration)
		var title string
		if terr := chromedp.Run(ctx, chromedp.Title(&title)); terr == nil {
			c.Info("Page title: %s", title)
		}
		return fmt.Errorf("%w: might not be on Playground page", ErrFormNotFound)
	}
	c.Success("Form found!")

	c.Step("Locating form fields...")
	if err := waitFor(ctx, timing.FormWait.Duration, NameInput, EmailInput, MessageInput); err != nil {
		return fmt.Errorf("form fields missing: %w", err)
	}
	c.Success("Found all form fields: Name, Email, Message")

	c.Step("Botting the form at superhuman speed...")
	start := time.Now()
	err := chromedp.Run(ctx,
		chromedp.SendKeys(NameInput, form.Name, chromedp.ByQuery),
		chromedp.SendKeys(EmailInput, form.Email, chromedp.ByQuery),
		chromedp.SendKeys(MessageInput, form.Message, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}

	c.Step("Finding and clicking submit button...")
	if err := chromedp.Run(ctx, chromedp.Click(SubmitButton, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to submit form: %w", err)
	}
	took := time.Since(start)

	c.Success("Form submitted instantly!")
	c.Info("Bot filled the entire form in %s - this should trigger behavior detection.", took.Round(time.Millisecond))

	if err := chromedp.Run(ctx, chromedp.Sleep(timing.ResultWait.Duration)); err != nil {
		return err
	}

	return c.Pause(ctx, "Check the Behavior Metrics on screen. Form Fill Time should be very low (suspicious).")
}

// openPlayground clicks the nav button by XPath, falling back to the first
// button whose text names the page
func openPlayground(ctx context.Context, env *Env) error {
	clickCtx, cancel := context.WithTimeout(ctx, env.Config.Timing.NavClickTimeout.Duration)
	defer cancel()

	err := chromedp.Run(clickCtx, chromedp.Click(PlaygroundNavXPath, chromedp.BySearch))
	if err == nil {
		env.Console.Success("Clicked Playground navigation")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	env.Console.Info("Nav click issue: %v, trying button text...", err)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(clickPlaygroundByTextJS, &clicked)); err != nil {
		return fmt.Errorf("failed to click Playground: %w", err)
	}
	if clicked {
		env.Console.Success("Clicked Playground via button text")
	} else {
		env.Logger.Warn("no button mentions Playground", "selector", PlaygroundNavXPath)
	}
	return nil
}

// waitFor waits up to d for every selector to be present
func waitFor(ctx context.Context, d time.Duration, selectors ...string) error {
	waitCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	actions := make([]chromedp.Action, len(selectors))
	for i, sel := range selectors {
		actions[i] = chromedp.WaitReady(sel, chromedp.ByQuery)
	}
	return chromedp.Run(waitCtx, actions...)
}
