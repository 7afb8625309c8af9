package facets

import (
	"context"

	"github.com/goliatone/go-facets/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the store. Hooks are cloned
// and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) StoreOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a cloned slice of the activity hooks configured on
// the store. The returned slice can be safely mutated by the caller.
func (s *Store[T]) ActivityHooks() activity.Hooks {
	if s == nil || s.emitter == nil {
		return nil
	}
	return cloneActivityHooks(s.emitter.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// storeEmitter forwards store lifecycle events to activity hooks. Hook
// failures are absorbed: observers never break a mutation.
type storeEmitter struct {
	hooks activity.Hooks
}

func newStoreEmitter(hooks activity.Hooks) *storeEmitter {
	return &storeEmitter{hooks: cloneActivityHooks(hooks)}
}

func (e *storeEmitter) enabled() bool {
	return e != nil && e.hooks.Enabled()
}

func (e *storeEmitter) storeCreated(state State, itemCount int) {
	if !e.enabled() {
		return
	}
	event := activity.BuildStoreCreatedEvent(activity.FilterEventInput{
		SnapshotID: state.SnapshotID(),
		Revision:   state.Revision(),
		Metadata:   map[string]any{"item_count": itemCount},
	})
	_ = e.hooks.Notify(context.Background(), event)
}

func (e *storeEmitter) selected(state State, dimension string, old, next Selection, cleared []string) {
	if !e.enabled() {
		return
	}
	input := activity.FilterEventInput{
		Dimension:  dimension,
		OldValue:   old.String(),
		NewValue:   next.String(),
		SnapshotID: state.SnapshotID(),
		Revision:   state.Revision(),
	}
	if next.IsAny() {
		_ = e.hooks.Notify(context.Background(), activity.BuildFilterClearedEvent(input))
	} else {
		_ = e.hooks.Notify(context.Background(), activity.BuildFilterSelectedEvent(input))
	}
	if len(cleared) > 0 {
		input.Cleared = cleared
		_ = e.hooks.Notify(context.Background(), activity.BuildFilterReconciledEvent(input))
	}
}

func (e *storeEmitter) reset(state State) {
	if !e.enabled() {
		return
	}
	event := activity.BuildFilterResetEvent(activity.FilterEventInput{
		SnapshotID: state.SnapshotID(),
		Revision:   state.Revision(),
	})
	_ = e.hooks.Notify(context.Background(), event)
}
