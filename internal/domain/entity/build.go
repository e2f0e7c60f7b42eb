package entity

import (
	"strings"
	"time"
)

const (
	// RowHashLength is the number of hash characters shown in build rows.
	RowHashLength = 12
	// BannerHashLength is the number of hash characters shown in the status banner.
	BannerHashLength = 16
)

// Build is the client's read-only copy of a server-owned build record.
type Build struct {
	BuildHash string
	Channel   string
	BuildDate time.Time
	// RawDate keeps the server value when it could not be parsed as a timestamp.
	RawDate   string
	IsActive  bool
	IsPatched bool
}

// Action is an operation an operator can trigger on a single build.
type Action int

const (
	// ActionDownload fetches and patches an unpatched build.
	ActionDownload Action = iota
	// ActionActivate makes a patched build the one served to clients.
	ActionActivate
	// ActionRepatch re-runs the patch pipeline on a patched build.
	ActionRepatch
)

// String returns the button label of the action.
func (a Action) String() string {
	switch a {
	case ActionDownload:
		return "Download"
	case ActionActivate:
		return "Activate"
	case ActionRepatch:
		return "Repatch"
	default:
		return "Unknown"
	}
}

// Actions returns the actions available for the build, in display order.
//
//	patched=false              -> Download
//	patched=true, active=false -> Activate, Repatch
//	patched=true, active=true  -> Repatch
func (b Build) Actions() []Action {
	if !b.IsPatched {
		return []Action{ActionDownload}
	}
	if b.IsActive {
		return []Action{ActionRepatch}
	}
	return []Action{ActionActivate, ActionRepatch}
}

// Allows reports whether the action is valid for the build's current flags.
func (b Build) Allows(action Action) bool {
	for _, a := range b.Actions() {
		if a == action {
			return true
		}
	}
	return false
}

// MatchesSearch reports whether query is empty or a case-insensitive substring of the hash.
func (b Build) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.BuildHash), strings.ToLower(query))
}

// HashPrefix returns the first n characters of hash, or all of it when shorter.
func HashPrefix(hash string, n int) string {
	if n <= 0 || len(hash) <= n {
		return hash
	}
	return hash[:n]
}

// ShortHash truncates a hash to n characters, appending "..." when it was cut.
func ShortHash(hash string, n int) string {
	if p := HashPrefix(hash, n); p != hash {
		return p + "..."
	}
	return hash
}

// FindBuild returns the build with the exact hash, if present.
func FindBuild(builds []Build, hash string) (Build, bool) {
	for _, b := range builds {
		if b.BuildHash == hash {
			return b, true
		}
	}
	return Build{}, false
}

// ActiveBuild returns the first active build. The server keeps at most one.
func ActiveBuild(builds []Build) (Build, bool) {
	for _, b := range builds {
		if b.IsActive {
			return b, true
		}
	}
	return Build{}, false
}
