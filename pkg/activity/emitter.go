package activity

import (
	"context"
	"strings"
)

// DefaultChannel tags events emitted without a channel.
const DefaultChannel = "variants"

// StatePruned is the renderer state reported by variant.pruned events.
const StatePruned = "pruned"

// Config holds emitter defaults.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter sends the lifecycle events of mounted variants to a fixed set of
// hooks.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter drops nil hooks. A disabled config yields an emitter without
// hooks.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{channel: strings.TrimSpace(cfg.Channel)}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if !cfg.Enabled {
		return e
	}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	return e
}

// Enabled reports whether any hook will be notified.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Transition emits variant.pruned when input.State is StatePruned and
// variant.resolved otherwise.
func (e *Emitter) Transition(ctx context.Context, input VariantEventInput) error {
	if !e.Enabled() {
		return nil
	}
	if input.State == StatePruned {
		return e.Emit(ctx, BuildPrunedEvent(input))
	}
	return e.Emit(ctx, BuildResolvedEvent(input))
}

// Emit notifies every hook, tagging the event with the emitter channel when it
// has none.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
