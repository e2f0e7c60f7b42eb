// Package opener launches the client view in the desktop browser.
package opener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/logging"
)

// ErrNoOpener is returned when no launcher command can be found.
var ErrNoOpener = errors.New("no browser launcher found")

// Browser implements port.ClientOpener by spawning $BROWSER, xdg-open or open.
type Browser struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// New creates a Browser using the real environment.
func New() *Browser {
	return &Browser{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Open implements port.ClientOpener.
// The launcher is started without waiting; the browser outlives the call.
func (b *Browser) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args, err := b.command()
	if err != nil {
		return err
	}
	args = append(args, url)

	logging.FromContext(ctx).Debug().
		Str("launcher", name).
		Str("url", url).
		Msg("opening client in browser")

	if err := b.start(name, args...); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	return nil
}

// command picks the launcher. $BROWSER may carry its own arguments.
func (b *Browser) command() (string, []string, error) {
	if browser := strings.Fields(b.getenv("BROWSER")); len(browser) > 0 {
		return browser[0], browser[1:], nil
	}

	candidates := []string{"xdg-open"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"open"}
	}
	for _, c := range candidates {
		if path, err := b.lookPath(c); err == nil {
			return path, nil, nil
		}
	}
	return "", nil, ErrNoOpener
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the launcher so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

var _ port.ClientOpener = (*Browser)(nil)
