package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context.
// Without one it returns a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

func withField(ctx context.Context, key, value string) context.Context {
	child := FromContext(ctx).With().Str(key, value).Logger()
	return WithContext(ctx, child)
}

// WithComponent tags every entry logged through ctx with a component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}

// WithServer tags entries with the build server base URL.
func WithServer(ctx context.Context, baseURL string) context.Context {
	return withField(ctx, "server", baseURL)
}

// WithBuild tags entries with the build hash they concern.
func WithBuild(ctx context.Context, hash string) context.Context {
	return withField(ctx, "hash", hash)
}
