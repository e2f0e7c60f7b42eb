// Package cmd provides Cobra CLI commands for buildsel.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/buildsel/internal/cli"
	"github.com/bnema/buildsel/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	serverFlag string
	rootCmd    = &cobra.Command{
		Use:   "buildsel",
		Short: "Operator console for patched builds",
		Long: `buildsel - manage the builds served by a build server.

Lists the builds known to the server, downloads and patches new ones,
activates a patched build for clients and re-runs the patch pipeline.
Long-running downloads are followed until the server reports them patched.

Run without a subcommand to open the interactive console, or use the
subcommands for scripted, headless operation.`,
		SilenceUsage: true,
		RunE:         runConsole,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ServerURL:   serverFlag,
				Interactive: isInteractive(cmd),
				BuildInfo:   buildInfo,
				Out:         cmd.OutOrStdout(),
				ErrOut:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "build server URL (overrides server.base_url)")
}

// isInteractive reports whether cmd runs the TUI console: the bare root
// command or "console". It matches by name so rootCmd's own initializer
// can call it.
func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == consoleCmdName
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
