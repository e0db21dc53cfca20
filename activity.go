package variants

import "github.com/goliatone/go-variants/pkg/activity"

// WithActivityHooks attaches hooks notified on every state transition. Nil
// hooks are dropped; events carry the "variants" channel unless
// WithActivityChannel says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *config) {
		cfg.hooks = hooks
	}
}

// WithActivityChannel sets the channel stamped on emitted activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.channel = channel
	}
}

func (c config) emitter() *activity.Emitter {
	return activity.NewEmitter(c.hooks, activity.Config{
		Enabled: len(c.hooks) > 0,
		Channel: c.channel,
	})
}
