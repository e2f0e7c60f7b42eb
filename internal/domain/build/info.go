// Package build describes the running buildsel binary.
package build

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	// RepoURL is the source repository; empty when the build did not set one.
	RepoURL string
}

// DisplayVersion returns Version, or "dev" for unversioned builds.
func (i Info) DisplayVersion() string {
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

// UserAgent identifies the console to the build server.
func (i Info) UserAgent() string {
	return "buildsel/" + i.DisplayVersion()
}
