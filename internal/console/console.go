// Package console prints the step-by-step narration an observer follows
// while the dashboard reacts, and reads the keypresses that pace it.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DefaultPrompt is shown when Pause is called without a prompt
const DefaultPrompt = "Press Enter to execute next step..."

// Console writes colored narration to out and reads demo keypresses from in.
// It is not safe for concurrent use.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	pausing bool
	styles  styles

	// lines is fed by a single reader goroutine so an abandoned read never
	// swallows the next line
	readOnce sync.Once
	lines    chan string
	readErr  error
}

type styles struct {
	header  lipgloss.Style
	step    lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	fail    lipgloss.Style
	bold    lipgloss.Style
	banner  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	header := r.NewStyle().Foreground(lipgloss.Color("13"))
	return styles{
		header:  header.Bold(true),
		step:    r.NewStyle().Foreground(lipgloss.Color("14")),
		info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")),
		bold:    r.NewStyle().Bold(true),
		banner: header.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("13")).
			Width(40).
			Align(lipgloss.Center),
	}
}

// New creates a console. Pausing is on.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		pausing: true,
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
}

// Stdio returns a console bound to the process's stdin and stdout.
func Stdio() *Console {
	return New(os.Stdin, os.Stdout)
}

// SetPausing turns demo pauses on or off. With pausing off, Pause prints its
// prompt and returns without reading, which is what unattended runs need.
func (c *Console) SetPausing(on bool) {
	c.pausing = on
}

// Pausing reports whether Pause waits for input.
func (c *Console) Pausing() bool {
	return c.pausing
}

func (c *Console) Header(text string) {
	fmt.Fprintf(c.out, "\n%s\n", c.styles.header.Render("=== "+text+" ==="))
}

func (c *Console) Step(format string, args ...any) {
	c.tagged(c.styles.step, "[STEP]", format, args...)
}

func (c *Console) Info(format string, args ...any) {
	c.tagged(c.styles.info, "[INFO]", format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.tagged(c.styles.success, "[SUCCESS]", format, args...)
}

// Fail prints an error line in red
func (c *Console) Fail(err error) {
	fmt.Fprintln(c.out, c.styles.fail.Render("Error: "+err.Error()))
}

func (c *Console) tagged(style lipgloss.Style, tag, format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", style.Render(tag), fmt.Sprintf(format, args...))
}

// Pause shows prompt and blocks until the observer presses Enter or ctx is
// done.
func (c *Console) Pause(ctx context.Context, prompt string) error {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	fmt.Fprintf(c.out, "\n%s\n", c.styles.warning.Render(">> "+prompt))
	if !c.pausing {
		return nil
	}

	_, err := c.readLine(ctx)
	return err
}

// Prompt prints label in bold and returns the next input line, trimmed.
// It gives up with ctx's error when ctx is done first.
func (c *Console) Prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(c.out, "\n%s", c.styles.bold.Render(label))
	return c.readLine(ctx)
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.readOnce.Do(func() {
		c.lines = make(chan string)
		go c.readLoop()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", c.readErr
		}
		return strings.TrimSpace(line), nil
	}
}

// readLoop hands input lines to readLine until in fails. The final line
// is delivered even without a trailing newline.
func (c *Console) readLoop() {
	for {
		line, err := c.in.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			c.readErr = err
			close(c.lines)
			return
		}
		c.lines <- line
	}
}

// Banner prints the boxed title shown above the menu
func (c *Console) Banner(title string) {
	fmt.Fprintln(c.out, c.styles.banner.Render(title))
}

// Println writes an unstyled line
func (c *Console) Println(text string) {
	fmt.Fprintln(c.out, text)
}

// Clear wipes the terminal when out is one. Anything else is left alone so
// piped transcripts stay readable.
func (c *Console) Clear() {
	f, ok := c.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}
	fmt.Fprint(c.out, "\033[H\033[2J")
}
