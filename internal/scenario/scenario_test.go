package scenario

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
	"github.com/ibeckermayer/blade-demo/internal/console"
	"github.com/ibeckermayer/blade-demo/internal/logging"
)

// fakeSession has no browser behind it, so every chromedp action fails
// with ErrInvalidContext the way a dead browser would.
type fakeSession struct {
	closes int
}

func (s *fakeSession) Context() context.Context { return context.Background() }

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeLauncher struct {
	err      error
	profiles []browser.Profile
	sessions []*fakeSession
}

func (l *fakeLauncher) Launch(_ context.Context, p browser.Profile) (Session, error) {
	l.profiles = append(l.profiles, p)
	if l.err != nil {
		return nil, l.err
	}
	s := &fakeSession{}
	l.sessions = append(l.sessions, s)
	return s, nil
}

func newTestRunner(input string) (*Runner, *fakeLauncher, *bytes.Buffer) {
	var out bytes.Buffer
	env := &Env{
		Console: console.New(strings.NewReader(input), &out),
		Logger:  logging.Discard(),
		Config:  config.Default(),
	}
	l := &fakeLauncher{}
	return NewRunner(env, l), l, &out
}

func TestRun_ClosesSessionWhenNavigationFails(t *testing.T) {
	r, l, out := newTestRunner("\n")

	err := r.Run(context.Background(), Standard())
	require.ErrorIs(t, err, chromedp.ErrInvalidContext)
	assert.True(t, Reported(err), "the runner already printed it")

	require.Len(t, l.sessions, 1)
	assert.Equal(t, 1, l.sessions[0].closes)

	got := out.String()
	assert.Contains(t, got, "SCENARIO 1: Standard Automation Bot")
	assert.Contains(t, got, "Navigating to http://localhost:3000...")
	assert.Contains(t, got, "Error: failed to load http://localhost:3000")
	assert.True(t, strings.Index(got, "Error:") < strings.Index(got, "Closing browser..."),
		"error is reported before the browser closes")
}

func TestRun_EveryScenarioClosesItsSession(t *testing.T) {
	for _, sc := range All() {
		t.Run(sc.Name, func(t *testing.T) {
			r, l, _ := newTestRunner("\n")

			assert.Error(t, r.Run(context.Background(), sc))
			require.Len(t, l.sessions, 1)
			assert.Equal(t, 1, l.sessions[0].closes)
		})
	}
}

func TestRun_LaunchFailure(t *testing.T) {
	r, l, out := newTestRunner("\n")
	l.err = errors.New("chrome not found")

	err := r.Run(context.Background(), Headless())
	require.EqualError(t, err, "chrome not found")
	assert.Empty(t, l.sessions)
	assert.Contains(t, out.String(), "Error: chrome not found")
	assert.NotContains(t, out.String(), "Closing browser...")
}

func TestRun_EOFBeforeLaunch(t *testing.T) {
	r, l, _ := newTestRunner("")

	err := r.Run(context.Background(), Stealth())
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, Reported(err))
	assert.Empty(t, l.profiles, "nothing launches when the observer is gone")
}

func TestRun_ProfileUsesConfig(t *testing.T) {
	r, l, _ := newTestRunner("\n")
	cfg := r.Config()
	cfg.Stealth.UserAgent = "Custom/1.0"
	cfg.Browser.ExecPath = "/usr/bin/chromium"
	cfg.Browser.WindowWidth = 1280
	cfg.Browser.WindowHeight = 800
	cfg.Browser.NoSandbox = true

	_ = r.Run(context.Background(), Stealth())

	require.Len(t, l.profiles, 1)
	p := l.profiles[0]
	assert.Equal(t, "stealth", p.Name)
	assert.Equal(t, "Custom/1.0", p.UserAgent)
	assert.True(t, p.MaskWebdriver)
	assert.Equal(t, "/usr/bin/chromium", p.ExecPath)
	assert.Equal(t, 1280, p.WindowWidth)
	assert.Equal(t, 800, p.WindowHeight)
	assert.True(t, p.NoSandbox)
}

func TestRun_DeadlineOnlyWhenUnattended(t *testing.T) {
	var hadDeadline bool
	sc := Standard()
	sc.Body = func(ctx context.Context, env *Env) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}

	r, _, _ := newTestRunner("\n")
	require.NoError(t, r.Run(context.Background(), sc))
	assert.False(t, hadDeadline)

	r, _, _ = newTestRunner("")
	r.env.Console.SetPausing(false)
	r.Config().Timing.ScenarioTimeout = config.Duration{Duration: time.Minute}
	require.NoError(t, r.Run(context.Background(), sc))
	assert.True(t, hadDeadline)
}

func TestLookup(t *testing.T) {
	cases := map[string]string{
		"1":          "standard",
		"2":          "headless",
		"3":          "stealth",
		"4":          "playground",
		"Stealth":    "stealth",
		" headless ": "headless",
	}
	for in, want := range cases {
		sc, err := Lookup(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, sc.Name)
	}

	_, err := Lookup("5")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestAll_MenuOrder(t *testing.T) {
	assert.Equal(t, []string{"standard", "headless", "stealth", "playground"}, Names())
	for i, sc := range All() {
		assert.Equal(t, string(rune('1'+i)), sc.Key)
		assert.NotEmpty(t, sc.Label)
		assert.NotNil(t, sc.Profile)
		assert.NotNil(t, sc.Body)
	}
}

func TestProfiles(t *testing.T) {
	cfg := config.Default()
	assert.False(t, Standard().Profile(cfg).Headless)
	assert.True(t, Headless().Profile(cfg).Headless)
	assert.Equal(t, cfg.Stealth.UserAgent, Stealth().Profile(cfg).UserAgent)
	assert.False(t, Playground().Profile(cfg).HideAutomation)
}

func TestAudit(t *testing.T) {
	sc, err := Audit("headless")
	require.NoError(t, err)
	assert.Contains(t, sc.Header, "headless profile")
	assert.False(t, sc.Profile(config.Default()).Headless, "audits always show the window")

	stealth, err := Audit("3")
	require.NoError(t, err)
	assert.True(t, stealth.Profile(config.Default()).MaskWebdriver)

	_, err = Audit("nope")
	assert.ErrorIs(t, err, ErrUnknownScenario)

	r, l, out := newTestRunner("\n")
	assert.Error(t, r.Run(context.Background(), sc))
	require.Len(t, l.sessions, 1)
	assert.Equal(t, 1, l.sessions[0].closes)
	assert.Contains(t, out.String(), "Navigating to https://bot.sannysoft.com...")
}
