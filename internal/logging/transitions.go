package logging

import (
	"github.com/rs/zerolog"

	variants "github.com/goliatone/go-variants"
)

// Transitions adapts logger to the renderer's transition logger. Transitions
// are logged at debug level, hook failures at warn.
func Transitions(logger zerolog.Logger) variants.Logger {
	return variants.LoggerFunc(func(event variants.LogEvent) {
		entry := logger.Debug()
		if event.Err != nil {
			entry = logger.Warn().Err(event.Err)
		}
		entry.
			Str("key", event.Key).
			Str("id", event.ID).
			Str("from", event.From.String()).
			Str("to", event.To.String()).
			Str("active", event.Active).
			Msg("variant transition")
	})
}
