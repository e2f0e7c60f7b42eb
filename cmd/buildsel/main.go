package main

import (
	"runtime"

	"github.com/bnema/buildsel/internal/cli/cmd"
	"github.com/bnema/buildsel/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
	repoURL   = ""
)

func main() {
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		RepoURL:   repoURL,
	})

	// Default: open the console (subcommands run headless)
	cmd.Execute()
}
