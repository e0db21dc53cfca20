package variants

import (
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"

	"github.com/goliatone/go-variants/pkg/activity"
)

// State tracks a Variants component through its lifecycle.
type State int32

const (
	// StateUnresolved is the server-rendered state: every option block carries
	// its content and CSS alone decides visibility.
	StateUnresolved State = iota
	// StateResolved means the component read the active option back from the
	// root element. All blocks still carry their content.
	StateResolved
	// StatePruned means the page finished loading and only the active block
	// keeps its content. There is no way back.
	StatePruned
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StatePruned:
		return "pruned"
	default:
		return "unknown"
	}
}

// Variants renders one block per option of a definition together with the
// bootstrap script and stylesheet selecting the active block before first
// paint. It implements templ.Component; render it again after Mount or a
// prune to obtain the markup for the current state.
type Variants struct {
	def      Definition
	id       string
	children map[string]templ.Component
	cfg      config
	emitter  *activity.Emitter

	mu     sync.Mutex
	state  State
	active string
	ctx    context.Context
	cancel func()
}

// NewVariants builds the component for def. children maps option labels to
// their content; options without an entry render as empty blocks.
func NewVariants(def Definition, children map[string]templ.Component, opts ...Option) *Variants {
	def = def.clone()
	content := make(map[string]templ.Component, len(children))
	for label, child := range children {
		content[label] = child
	}
	cfg := applyOptions(opts)
	return &Variants{
		def:      def,
		id:       def.ID(),
		children: content,
		cfg:      cfg,
		emitter:  cfg.emitter(),
	}
}

// Definition returns the definition the component renders.
func (v *Variants) Definition() Definition {
	return v.def.clone()
}

// ID returns the identifier scoping the component's blocks.
func (v *Variants) ID() string {
	return v.id
}

// State returns the current lifecycle state.
func (v *Variants) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Active returns the resolved option. ok is false while unresolved.
func (v *Variants) Active() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateUnresolved {
		return "", false
	}
	return v.active, true
}

// Mount reads the active option from host and schedules pruning for the load
// signal, pruning right away when the page already finished loading. Only the
// first call has an effect.
func (v *Variants) Mount(ctx context.Context, host Host) {
	if host == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	v.mu.Lock()
	if v.state != StateUnresolved {
		v.mu.Unlock()
		return
	}
	raw, ok := host.RootAttribute(v.def.Attribute())
	v.active = Resolve(v.def, raw, ok)
	v.state = StateResolved
	v.ctx = ctx
	active := v.active
	v.mu.Unlock()

	v.transition(ctx, StateUnresolved, StateResolved, active)

	if host.Loaded() {
		v.Prune()
		return
	}
	cancel := host.OnLoad(v.Prune)

	v.mu.Lock()
	if v.state == StateResolved {
		v.cancel = cancel
		cancel = nil
	}
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Prune drops the content of every non-active block. It does nothing unless
// the component is resolved, so repeated load signals leave the markup as the
// first one did.
func (v *Variants) Prune() {
	v.mu.Lock()
	if v.state != StateResolved {
		v.mu.Unlock()
		return
	}
	v.state = StatePruned
	cancel := v.cancel
	v.cancel = nil
	ctx := v.ctx
	active := v.active
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	v.transition(ctx, StateResolved, StatePruned, active)
}

// Unmount drops a pending load subscription. The component keeps its state.
func (v *Variants) Unmount() {
	v.mu.Lock()
	cancel := v.cancel
	v.cancel = nil
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Render implements templ.Component.
func (v *Variants) Render(ctx context.Context, w io.Writer) error {
	v.mu.Lock()
	state, active := v.state, v.active
	v.mu.Unlock()

	if v.cfg.inlineAssets {
		if err := Assets(v.def).Render(ctx, w); err != nil {
			return err
		}
	}
	key := templ.EscapeString(v.id)
	for _, option := range v.def.Options {
		open := `<div ` + AttrVariant + `="` + templ.EscapeString(option) + `" ` + AttrVariantKey + `="` + key + `">`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if state != StatePruned || option == active {
			if child := v.children[option]; child != nil {
				if err := child.Render(ctx, w); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
	}
	return nil
}

func (v *Variants) transition(ctx context.Context, from, to State, active string) {
	event := LogEvent{Key: v.def.Key, ID: v.id, From: from, To: to, Active: active}
	event.Err = v.emitter.Transition(ctx, activity.VariantEventInput{
		ActorID: v.cfg.actorID,
		Key:     v.def.Key,
		ID:      v.id,
		Option:  active,
		State:   to.String(),
	})
	v.cfg.loggerOrNoop().LogTransition(event)
}

// Assets renders the bootstrap script and the scoped stylesheet of def.
func Assets(def Definition) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		id := def.ID()
		markup := `<script>` + Script(def) + `</script>` +
			`<style ` + AttrVariantStyles + `="` + templ.EscapeString(id) + `">` + CSS(def, id) + `</style>`
		_, err := io.WriteString(w, markup)
		return err
	})
}
