// Package probe reads the client-side automation signals a page can see,
// so the narration can tell the observer which of them the dashboard has to
// work with. It does not classify anything.
package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// Snapshot is what the page reports about the browser it runs in
type Snapshot struct {
	UserAgent      string   `json:"userAgent"`
	Webdriver      bool     `json:"webdriver"`
	Plugins        int      `json:"plugins"`
	Languages      int      `json:"languages"`
	HasChrome      bool     `json:"hasChrome"`
	ChromeRuntime  bool     `json:"chromeRuntime"`
	AutomationVars []string `json:"automationVars"`
}

// driverGlobals are the document/window properties left behind by
// selenium, chromedriver and friends
var driverGlobals = []string{
	"__webdriver_evaluate",
	"__selenium_evaluate",
	"__webdriver_script_function",
	"__webdriver_script_func",
	"__webdriver_script_fn",
	"__fxdriver_evaluate",
	"__driver_unwrapped",
	"__webdriver_unwrapped",
	"__driver_evaluate",
	"__selenium_unwrapped",
	"__fxdriver_unwrapped",
	"_Selenium_IDE_Recorder",
	"_selenium",
	"callSelenium",
	"_WEBDRIVER_ELEM_CACHE",
	"$cdc_asdjflasutopfhvcZLmcfl_",
	"$chrome_asyncScriptInfo",
}

func snapshotJS() string {
	names := make([]string, len(driverGlobals))
	for i, n := range driverGlobals {
		names[i] = "'" + n + "'"
	}

	return `
		(function() {
			const globals = [` + strings.Join(names, ", ") + `];
			return {
				userAgent: navigator.userAgent || '',
				webdriver: navigator.webdriver === true,
				plugins: navigator.plugins ? navigator.plugins.length : 0,
				languages: navigator.languages ? navigator.languages.length : 0,
				hasChrome: !!window.chrome,
				chromeRuntime: !!(window.chrome && window.chrome.runtime),
				automationVars: globals.filter(p => !!(document[p] || window[p]))
			};
		})()
	`
}

// Take evaluates the snapshot in the page loaded in ctx
func Take(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := chromedp.Run(ctx, chromedp.Evaluate(snapshotJS(), &snap)); err != nil {
		return nil, fmt.Errorf("failed to read client signals: %w", err)
	}
	return &snap, nil
}

// Indicators lists the signals in s that give automation away, in the
// dashboard's wording.
func (s *Snapshot) Indicators() []string {
	var out []string

	if strings.Contains(s.UserAgent, "HeadlessChrome") {
		out = append(out, "HeadlessChrome in user agent")
	}
	if s.Webdriver {
		out = append(out, "navigator.webdriver is true")
	}
	if s.Plugins == 0 {
		out = append(out, "No plugins detected")
	}
	if s.Languages == 0 {
		out = append(out, "No languages detected")
	}
	if s.HasChrome && !s.ChromeRuntime {
		out = append(out, "chrome.runtime is missing")
	}
	for _, v := range s.AutomationVars {
		out = append(out, v+" detected")
	}

	return out
}

// Clean reports whether no indicator fired
func (s *Snapshot) Clean() bool {
	return len(s.Indicators()) == 0
}
