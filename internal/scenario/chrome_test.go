package scenario

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
	"github.com/ibeckermayer/blade-demo/internal/console"
	"github.com/ibeckermayer/blade-demo/internal/logging"
)

// showFormJS renders the form once the Playground nav button is clicked,
// the way the dashboard's router swaps pages in
const showFormJS = `
<script>
document.getElementById('pg').addEventListener('click', function() {
	document.getElementById('main').innerHTML =
		'<form method="post" action="/submit">' +
		'<input type="text" name="name">' +
		'<input type="email" name="email">' +
		'<textarea name="message"></textarea>' +
		'<button type="submit">Send</button>' +
		'</form>';
});
</script>`

const dashboardPage = `<!doctype html><html><head><title>BLADE</title></head>
<body style="height:3000px">
<div id="root"><div>
	<nav><div><button id="home">Dashboard</button><button id="pg">Playground</button></div></nav>
	<main id="main"></main>
</div></div>` + showFormJS + `</body></html>`

// relayoutPage moves the Playground button out of the nav the XPath expects
const relayoutPage = `<!doctype html><html><head><title>BLADE</title></head>
<body>
<div id="root">
	<header><button id="pg">Open Playground</button></header>
	<main id="main"></main>
</div>` + showFormJS + `</body></html>`

const emptyPage = `<!doctype html><html><head><title>Empty Page</title></head>
<body><div id="root"></div></body></html>`

type dashboard struct {
	*httptest.Server
	submitted chan url.Values
}

func newDashboard(t *testing.T) *dashboard {
	t.Helper()
	d := &dashboard{submitted: make(chan url.Values, 1)}

	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", page(dashboardPage))
	mux.HandleFunc("/relayout", page(relayoutPage))
	mux.HandleFunc("/empty", page(emptyPage))
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err == nil {
			select {
			case d.submitted <- r.PostForm:
			default:
			}
		}
		fmt.Fprint(w, "<html><body>received</body></html>")
	})

	d.Server = httptest.NewServer(mux)
	t.Cleanup(d.Close)
	return d
}

// forceHeadless keeps every scenario off screen while testing
type forceHeadless struct {
	Launcher
}

func (f forceHeadless) Launch(ctx context.Context, p browser.Profile) (Session, error) {
	p.Headless = true
	return f.Launcher.Launch(ctx, p)
}

// chromeRunner runs scenarios in a real headless Chrome against baseURL,
// skipping the test when there is no Chrome to run
func chromeRunner(t *testing.T, baseURL string) (*Runner, *bytes.Buffer) {
	t.Helper()
	if testing.Short() {
		t.Skip("needs Chrome")
	}

	var execPath string
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			execPath = path
			break
		}
	}
	if execPath == "" {
		t.Skip("no Chrome found on PATH")
	}

	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Browser.ExecPath = execPath
	cfg.Browser.NoSandbox = os.Geteuid() == 0
	cfg.Headless.ScreenshotPath = filepath.Join(t.TempDir(), "headless_proof.png")

	ms := func(n int) config.Duration { return config.Duration{Duration: time.Duration(n) * time.Millisecond} }
	cfg.Timing.ScenarioTimeout = ms(60000)
	cfg.Timing.PageSettle = ms(100)
	cfg.Timing.AppMount = ms(100)
	cfg.Timing.ScrollSettle = ms(100)
	cfg.Timing.NavClickTimeout = ms(1000)
	cfg.Timing.FormRender = ms(100)
	cfg.Timing.FormWait = ms(3000)
	cfg.Timing.ResultWait = ms(1000)

	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)
	c.SetPausing(false)

	logger := logging.Discard()
	env := &Env{Console: c, Logger: logger, Config: cfg}
	return NewRunner(env, forceHeadless{Chrome(browser.NewLauncher(logger))}), &out
}

func requireSubmitted(t *testing.T, d *dashboard, form config.FormConfig) {
	t.Helper()
	select {
	case got := <-d.submitted:
		assert.Equal(t, form.Name, got.Get("name"))
		assert.Equal(t, form.Email, got.Get("email"))
		assert.Equal(t, form.Message, got.Get("message"))
	case <-time.After(5 * time.Second):
		t.Fatal("form was never submitted")
	}
}

func TestChrome_PlaygroundFillsForm(t *testing.T) {
	d := newDashboard(t)
	r, out := chromeRunner(t, d.URL)

	require.NoError(t, r.Run(context.Background(), Playground()))
	requireSubmitted(t, d, r.Config().Form)

	got := out.String()
	assert.Contains(t, got, "Clicked Playground navigation")
	assert.Contains(t, got, "Form found!")
	assert.Contains(t, got, "Form submitted instantly!")
	assert.Contains(t, got, "Closing browser...")
}

func TestChrome_PlaygroundFallsBackToButtonText(t *testing.T) {
	d := newDashboard(t)
	r, out := chromeRunner(t, d.URL+"/relayout")

	require.NoError(t, r.Run(context.Background(), Playground()))
	requireSubmitted(t, d, r.Config().Form)

	got := out.String()
	assert.Contains(t, got, "Nav click issue")
	assert.Contains(t, got, "Clicked Playground via button text")
}

func TestChrome_PlaygroundWithoutForm(t *testing.T) {
	d := newDashboard(t)
	r, out := chromeRunner(t, d.URL+"/empty")
	r.Config().Timing.FormWait = config.Duration{Duration: 500 * time.Millisecond}

	err := r.Run(context.Background(), Playground())
	require.ErrorIs(t, err, ErrFormNotFound)
	assert.True(t, Reported(err))

	got := out.String()
	assert.Contains(t, got, "Page title: Empty Page")
	assert.Contains(t, got, "Error: could not find form")
	assert.Contains(t, got, "Closing browser...")
}

func TestChrome_HeadlessLeavesScreenshot(t *testing.T) {
	d := newDashboard(t)
	r, out := chromeRunner(t, d.URL)

	require.NoError(t, r.Run(context.Background(), Headless()))

	data, err := os.ReadFile(r.Config().Headless.ScreenshotPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Contains(t, out.String(), "Screenshot saved!")
}

func TestChrome_SignalsPerScenario(t *testing.T) {
	d := newDashboard(t)

	r, out := chromeRunner(t, d.URL)
	require.NoError(t, r.Run(context.Background(), Standard()))
	assert.Contains(t, out.String(), "navigator.webdriver is true")

	r, out = chromeRunner(t, d.URL)
	require.NoError(t, r.Run(context.Background(), Stealth()))
	assert.NotContains(t, out.String(), "navigator.webdriver is true")
	assert.NotContains(t, out.String(), "HeadlessChrome in user agent")
}
