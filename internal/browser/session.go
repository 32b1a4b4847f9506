package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Session is one live browser, owned by a single scenario run.
type Session struct {
	ctx         context.Context
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Launcher starts Chrome processes through chromedp
type Launcher struct {
	logger *log.Logger
}

// NewLauncher creates a launcher that reports chromedp diagnostics to logger
func NewLauncher(logger *log.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Launch starts a browser for p and returns once it is ready for actions.
// The session must be closed even when later actions fail.
func (l *Launcher) Launch(ctx context.Context, p Profile) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, p.Options()...)

	browserCtx, ctxCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.logger.Debugf),
		chromedp.WithErrorf(l.logger.Errorf),
	)

	s := &Session{ctx: browserCtx, allocCancel: allocCancel, ctxCancel: ctxCancel}

	// An empty Run starts the browser so launch failures surface here
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start %s browser: %w", p.Name, err)
	}

	if p.MaskWebdriver {
		// Registered before the first navigation so it runs ahead of the
		// dashboard's own scripts.
		err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(MaskWebdriverScript).Do(ctx)
			return err
		}))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to install webdriver mask: %w", err)
		}
	}

	l.logger.Debug("browser started", "profile", p.Name, "headless", p.Headless)
	return s, nil
}

// Context returns the chromedp context actions must run against
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.ctxCancel()
		s.allocCancel()
	})
	return s.closeErr
}

// SaveScreenshot captures the current viewport as a PNG at path
func SaveScreenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}
