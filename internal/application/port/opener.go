package port

import "context"

//go:generate mockgen -source=opener.go -destination=mocks/mock_opener.go -package=mocks

// ClientOpener opens the primary client view served by the build server.
type ClientOpener interface {
	Open(ctx context.Context, url string) error
}
