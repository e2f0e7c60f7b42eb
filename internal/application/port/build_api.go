// Package port defines interfaces for external dependencies.
package port

import (
	"context"
	"errors"

	"github.com/bnema/buildsel/internal/domain/entity"
)

var (
	// ErrTransport indicates the request never produced a response (network, timeout).
	ErrTransport = errors.New("build server unreachable")
	// ErrDecode indicates the response body was not the expected JSON.
	ErrDecode = errors.New("unexpected build server response")
)

// Response statuses reported by the build server.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusAccepted = "accepted"
)

// ActionResult is the decoded body of a mutating build endpoint.
type ActionResult struct {
	Status  string
	Message string
	// BuildHash is set when the server names the build it started working on.
	BuildHash string
}

// Failed reports whether the server explicitly flagged the request as failed.
func (r ActionResult) Failed() bool {
	return r.Status == StatusError
}

// OK reports whether the server explicitly confirmed the request.
func (r ActionResult) OK() bool {
	return r.Status == StatusOK
}

// BuildAPI is the remote build collection consumed by the console.
type BuildAPI interface {
	// ListBuilds returns the full ordered build collection.
	ListBuilds(ctx context.Context) ([]entity.Build, error)

	// FetchCurrent asks the server to fetch and patch the current upstream build.
	FetchCurrent(ctx context.Context) (ActionResult, error)

	// Download asks the server to download and patch a known build.
	Download(ctx context.Context, hash string) (ActionResult, error)

	// Activate marks a patched build as the one served to clients.
	Activate(ctx context.Context, hash string) (ActionResult, error)

	// Repatch re-runs the patch pipeline on a cached build.
	Repatch(ctx context.Context, hash string) (ActionResult, error)

	// SetIndexScripts overrides the entry scripts detected for a build.
	SetIndexScripts(ctx context.Context, hash string, scripts []string) (ActionResult, error)
}
