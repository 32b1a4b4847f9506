// Package browser builds chromedp launch options for each demo client
// profile and manages the browser session a scenario runs in.
package browser

import "github.com/chromedp/chromedp"

// MaskWebdriverScript hides navigator.webdriver from page scripts
const MaskWebdriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Profile describes how a demo client presents itself to the dashboard
type Profile struct {
	Name     string
	Headless bool

	// UserAgent replaces Chrome's own user agent when set
	UserAgent string

	// HideAutomation drops the enable-automation switch and the
	// AutomationControlled blink feature, so Chrome shows no automation
	// infobar and leaves navigator.webdriver false.
	HideAutomation bool

	// MaskWebdriver installs MaskWebdriverScript on every new document
	MaskWebdriver bool

	WindowWidth  int
	WindowHeight int

	// ExecPath points at a specific Chrome binary; empty lets chromedp find one
	ExecPath string

	// NoSandbox is needed when Chrome runs as root, e.g. in a container
	NoSandbox bool
}

// Standard is a stock automated Chrome with nothing hidden
func Standard() Profile {
	return Profile{Name: "standard"}
}

// Headless is Standard without a visible window
func Headless() Profile {
	return Profile{Name: "headless", Headless: true}
}

// Stealth tries to pass as a desktop Chrome driven by a person
func Stealth(userAgent string) Profile {
	return Profile{
		Name:           "stealth",
		UserAgent:      userAgent,
		HideAutomation: true,
		MaskWebdriver:  true,
	}
}

// Options returns the chromedp allocator options for p.
func (p Profile) Options() []chromedp.ExecAllocatorOption {
	// DefaultExecAllocatorOptions starts headless and with enable-automation;
	// every profile states both explicitly.
	var headless any = false
	if p.Headless {
		headless = "new"
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("enable-automation", !p.HideAutomation),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	if p.HideAutomation {
		opts = append(opts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-infobars", true),
		)
	}

	if p.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(p.UserAgent))
	}

	if p.WindowWidth > 0 && p.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(p.WindowWidth, p.WindowHeight))
	}

	if p.Headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}

	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}

	if p.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	return opts
}

// WithWindow returns a copy of p with the given window size
func (p Profile) WithWindow(width, height int) Profile {
	p.WindowWidth = width
	p.WindowHeight = height
	return p
}

// WithExecPath returns a copy of p launching the given binary
func (p Profile) WithExecPath(path string) Profile {
	p.ExecPath = path
	return p
}

// WithNoSandbox returns a copy of p with NoSandbox set to on
func (p Profile) WithNoSandbox(on bool) Profile {
	p.NoSandbox = on
	return p
}
