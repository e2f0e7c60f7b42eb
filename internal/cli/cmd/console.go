package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/buildsel/internal/cli/model"
	"github.com/bnema/buildsel/internal/logging"
)

const consoleCmdName = "console"

var consoleCmd = &cobra.Command{
	Use:   consoleCmdName,
	Short: "Open the interactive build console",
	Long: `Open the interactive build console.

The console lists the server's builds with search, status filter and
pagination, and runs download, activate and repatch on the selected row.
Press ? for the key bindings.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	log := logging.FromContext(app.Ctx())

	if err := app.WatchConfig(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	cfg := model.ConsoleModelConfig{
		Console:    app.Console,
		Toasts:     app.Toasts,
		Refresh:    app.Refresh,
		Dispatcher: app.Dispatcher,
		Opener:     app.Opener,
		Debouncer:  app.Debouncer,
		Resolver:   app.Resolver,
		ClientURL:  app.Config.ClientURL(),
		ServerURL:  app.Config.Server.BaseURL,
		DateFormat: app.Config.Appearance.DateFormat,
	}

	ctx, cancel := context.WithCancel(app.Ctx())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(model.NewConsoleModel(gctx, app.Theme, cfg), tea.WithAltScreen(), tea.WithContext(gctx))
	detach := model.Bridge(p, cfg)
	defer detach()

	g.Go(func() error {
		// A busy metrics port must not take the console down.
		if err := app.ServeMetrics(gctx); err != nil {
			log.Warn().Err(err).Msg("metrics server unavailable")
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("console: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Debug().Msg("console closed")
	return nil
}
