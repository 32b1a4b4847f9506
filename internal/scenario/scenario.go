// Package scenario holds the scripted client behaviours shown against the
// detection dashboard and the runner that gives each one a browser.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ibeckermayer/blade-demo/internal/browser"
	"github.com/ibeckermayer/blade-demo/internal/config"
	"github.com/ibeckermayer/blade-demo/internal/console"
)

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrFormNotFound    = errors.New("could not find form")
)

// Session is a live browser as seen by a scenario body
type Session interface {
	Context() context.Context
	Close() error
}

// Launcher opens one Session per scenario run
type Launcher interface {
	Launch(ctx context.Context, p browser.Profile) (Session, error)
}

// Env is what a scenario body gets to work with
type Env struct {
	Console *console.Console
	Logger  *log.Logger
	Config  *config.Config
}

// Scenario is one scripted client
type Scenario struct {
	Key   string // menu key
	Name  string // CLI name
	Label string // menu line

	Header    string
	Intro     []string
	Ready     string // pause prompt shown before launching
	Launching string

	Profile func(cfg *config.Config) browser.Profile
	Body    func(ctx context.Context, env *Env) error
}

// All returns the scenarios in menu order
func All() []Scenario {
	return []Scenario{Standard(), Headless(), Stealth(), Playground()}
}

// Lookup finds a scenario by menu key or name, ignoring case
func Lookup(keyOrName string) (Scenario, error) {
	want := strings.ToLower(strings.TrimSpace(keyOrName))
	for _, sc := range All() {
		if want == sc.Key || want == sc.Name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, keyOrName)
}

// Names lists the CLI names in menu order
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, sc := range all {
		names[i] = sc.Name
	}
	return names
}

// Chrome adapts a browser.Launcher to the Launcher interface
func Chrome(l *browser.Launcher) Launcher {
	return chromeLauncher{l}
}

type chromeLauncher struct {
	l *browser.Launcher
}

func (c chromeLauncher) Launch(ctx context.Context, p browser.Profile) (Session, error) {
	s, err := c.l.Launch(ctx, p)
	if err != nil {
		return nil, err
	}
	return s, nil
}
