package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/cli"
	"github.com/bnema/buildsel/internal/domain/entity"
)

var (
	downloadWait     bool
	fetchCurrentWait bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <hash>",
	Short: "Download and patch a build",
	Long: `Ask the server to download and patch a build.

The hash may be any unique prefix of a build hash. With --wait the command
follows the build until the server reports it patched or the poll times out.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var fetchCurrentCmd = &cobra.Command{
	Use:   "fetch-current",
	Short: "Fetch the current upstream build",
	Long: `Ask the server to fetch the current upstream build.

With --wait the command follows the announced build until it is patched.`,
	Args: cobra.NoArgs,
	RunE: runFetchCurrent,
}

var activateCmd = &cobra.Command{
	Use:   "activate <hash>",
	Short: "Serve a patched build to clients",
	Long: `Make a patched build the active one and open the client view
(see console.open_client).`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

var repatchCmd = &cobra.Command{
	Use:   "repatch <hash>",
	Short: "Re-run the patch pipeline on a patched build",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepatch,
}

var indexScriptsCmd = &cobra.Command{
	Use:   "index-scripts <hash> <script>...",
	Short: "Override the entry scripts used when patching a build",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runIndexScripts,
}

func init() {
	rootCmd.AddCommand(downloadCmd, fetchCurrentCmd, activateCmd, repatchCmd, indexScriptsCmd)
	downloadCmd.Flags().BoolVarP(&downloadWait, "wait", "w", false, "wait until the build is patched")
	fetchCurrentCmd.Flags().BoolVarP(&fetchCurrentWait, "wait", "w", false, "wait until the fetched build is patched")
}

// errEmptyHash rejects blank hash arguments, which would prefix-match every build.
var errEmptyHash = errors.New("build hash must not be empty")

// resolveBuild loads the snapshot and finds the build named by query.
func resolveBuild(ctx context.Context, app *cli.App, query string) (entity.Build, error) {
	if strings.TrimSpace(query) == "" {
		return entity.Build{}, errEmptyHash
	}
	if err := app.Refresh.Execute(ctx, usecase.RefreshBuildsInput{}); err != nil {
		return entity.Build{}, err
	}
	return matchBuild(app.Console.Snapshot(), query)
}

// matchBuild finds the build named by an exact hash or a unique,
// case-insensitive hash prefix.
func matchBuild(snapshot []entity.Build, query string) (entity.Build, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entity.Build{}, errEmptyHash
	}
	if b, ok := entity.FindBuild(snapshot, q); ok {
		return b, nil
	}

	var matches []entity.Build
	for _, b := range snapshot {
		if strings.HasPrefix(strings.ToLower(b.BuildHash), q) {
			matches = append(matches, b)
		}
	}

	switch len(matches) {
	case 0:
		return entity.Build{}, fmt.Errorf("no build matching '%s' found", query)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, b := range matches {
			ids = append(ids, entity.ShortHash(b.BuildHash, entity.RowHashLength))
		}
		return entity.Build{}, fmt.Errorf("multiple builds match '%s': %s", query, strings.Join(ids, ", "))
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	b, err := resolveBuild(ctx, app, args[0])
	if err != nil {
		return err
	}
	if !b.Allows(entity.ActionDownload) {
		return fmt.Errorf("%w: build %s is already patched", usecase.ErrNotAllowed, entity.ShortHash(b.BuildHash, entity.RowHashLength))
	}

	poll, err := app.Dispatcher.Download(ctx, b.BuildHash)
	if err != nil {
		return err
	}
	if !downloadWait {
		return nil
	}
	return waitPatched(ctx, cmd, app, poll)
}

func runFetchCurrent(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	poll, err := app.Dispatcher.FetchCurrent(ctx)
	if err != nil {
		return err
	}
	if !fetchCurrentWait || poll == nil {
		return nil
	}
	return waitPatched(ctx, cmd, app, poll)
}

// waitPatched blocks until the poll ends. A poll that times out is an error
// here so that scripts can tell it apart from a patched build.
func waitPatched(ctx context.Context, cmd *cobra.Command, app *cli.App, poll *usecase.Poll) error {
	out := cmd.OutOrStdout()
	short := entity.ShortHash(poll.Hash, entity.RowHashLength)
	fmt.Fprintln(out, app.Theme.Subtle.Render(fmt.Sprintf("Waiting for build %s to be patched...", short)))

	st, err := poll.Wait(ctx)
	if err != nil {
		return err
	}
	switch st {
	case usecase.PollResolved:
		return nil
	case usecase.PollTimedOut:
		return fmt.Errorf("build %s was not patched within %s", short, app.Config.Polling.Timeout)
	default:
		return fmt.Errorf("poll for build %s ended: %s", short, st)
	}
}

func runActivate(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	b, err := resolveBuild(ctx, app, args[0])
	if err != nil {
		return err
	}
	if err := app.Dispatcher.Perform(ctx, b, entity.ActionActivate); err != nil {
		return err
	}
	// Let the delayed client open run before the process exits.
	app.Dispatcher.Wait()
	return nil
}

func runRepatch(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	b, err := resolveBuild(ctx, app, args[0])
	if err != nil {
		return err
	}
	return app.Dispatcher.Perform(ctx, b, entity.ActionRepatch)
}

func runIndexScripts(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	b, err := resolveBuild(ctx, app, args[0])
	if err != nil {
		return err
	}
	return app.Dispatcher.SetIndexScripts(ctx, b.BuildHash, args[1:])
}
