package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags the logger carried by ctx with a component field.
func WithComponent(ctx context.Context, component string) context.Context {
	return FromContext(ctx).With().Str("component", component).Logger().WithContext(ctx)
}
