package facets

import (
	"sync"
)

// Store owns the authoritative filter state for a fixed record collection and
// broadcasts every change to its subscribers. All mutation flows through
// Select, Clear, and Reset; the record collection and configuration are
// read-only for the store's lifetime.
//
// Consumers typically drive a store from a single UI goroutine, but the store
// is mutex-guarded and safe for concurrent use.
type Store[T any] struct {
	mu    sync.RWMutex
	items []T
	cfg   Config[T]
	state State

	policy       Policy
	res          *resolver[T]
	changeLogger ChangeLogger
	descriptor   DescriptorGenerator
	emitter      *storeEmitter

	subscribers []*subscriber[T]
	nextSubID   uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(State)
}

// New constructs a store over items and cfg with every dimension initialized
// to Any. The items slice is shallow-copied; New never fails.
func New[T any](items []T, cfg Config[T], opts ...StoreOption) *Store[T] {
	sc := applyStoreOptions(opts)
	s := &Store[T]{
		items:  append([]T(nil), items...),
		cfg:    cfg,
		state:  newState(cfg.Names()),
		policy: sc.policy,
		res: &resolver[T]{
			extractor: sc.extractor,
			cache:     sc.programCache,
			functions: sc.functions,
			logger:    sc.extractorLogger,
		},
		changeLogger: sc.changeLogger,
		descriptor:   sc.descriptorGenerator,
		emitter:      newStoreEmitter(sc.activityHooks),
	}
	s.emitter.storeCreated(s.state, len(s.items))
	return s
}

// Policy returns the conflict policy the store was constructed with.
func (s *Store[T]) Policy() Policy {
	return s.policy
}

// Select sets the named dimension's selection. Passing Any, nil, or the
// literal string "Any" clears the constraint. An unknown dimension name is a
// deliberate silent no-op (observable through the ChangeLogger); a value
// outside the configured option list is stored as-is and simply yields empty
// derivations. Subscribers are notified synchronously before Select returns.
func (s *Store[T]) Select(name string, value any) {
	sel := SelectionOf(value)

	s.mu.Lock()
	if !s.cfg.has(name) {
		s.mu.Unlock()
		s.logChange(ChangeLogEvent{Verb: ChangeVerbSelect, Dimension: name, Value: sel.Value(), Ignored: true})
		return
	}
	old := s.state.Selection(name)
	next := s.state.withSelection(name, sel)
	var cleared []string
	if s.policy == PolicyReconcile {
		next, cleared = s.reconcile(next, name)
	}
	s.state = next
	targets, state := s.deliveryTargets()
	s.mu.Unlock()

	verb := ChangeVerbSelect
	if sel.IsAny() {
		verb = ChangeVerbClear
	}
	s.logChange(ChangeLogEvent{
		Verb:      verb,
		Dimension: name,
		Value:     sel.Value(),
		Revision:  state.Revision(),
	})
	if len(cleared) > 0 {
		s.logChange(ChangeLogEvent{
			Verb:      ChangeVerbReconcile,
			Dimension: name,
			Cleared:   cleared,
			Revision:  state.Revision(),
		})
	}
	s.emitter.selected(state, name, old, sel, cleared)
	deliver(targets, state)
}

// Clear removes the named dimension's constraint.
func (s *Store[T]) Clear(name string) {
	s.Select(name, Any)
}

// Reset restores the all-Any snapshot and notifies subscribers.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	next := newState(s.cfg.Names())
	next.revision = s.state.revision + 1
	s.state = next
	targets, state := s.deliveryTargets()
	s.mu.Unlock()

	s.logChange(ChangeLogEvent{Verb: ChangeVerbReset, Revision: state.Revision()})
	s.emitter.reset(state)
	deliver(targets, state)
}

// reconcile clears every dimension other than target whose non-Any selection
// is absent from its recomputed available options, iterating until no
// clearing occurs. Clearing only widens other dimensions' availability, so
// the loop is monotone and terminates within one pass per dimension.
func (s *Store[T]) reconcile(state State, target string) (State, []string) {
	var cleared []string
	for {
		changed := false
		for _, dim := range s.cfg.dims {
			if dim.Name == target {
				continue
			}
			sel := state.Selection(dim.Name)
			if sel.IsAny() {
				continue
			}
			if optionReachable(s.items, s.cfg, state, s.res, dim, sel.Value()) {
				continue
			}
			state = state.withSelection(dim.Name, Any)
			cleared = append(cleared, dim.Name)
			changed = true
		}
		if !changed {
			return state, cleared
		}
	}
}

func optionReachable[T any](items []T, cfg Config[T], state State, res *resolver[T], dim Dimension[T], value any) bool {
	return reachableCount(items, cfg, state, res, dim, value, true) > 0
}

// Subscribe registers fn to receive the current state immediately and every
// subsequent change, in registration order, until the returned cancel func
// runs. Callbacks execute outside the store lock, so re-entrant mutation from
// within fn is defined: the nested mutation and its notifications complete
// before the outer delivery resumes.
func (s *Store[T]) Subscribe(fn func(State)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, &subscriber[T]{id: id, fn: fn})
	state := s.state
	s.mu.Unlock()

	fn(state)

	return func() {
		s.mu.Lock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
}

// deliveryTargets snapshots the subscriber list and state under the lock so
// delivery can happen outside it.
func (s *Store[T]) deliveryTargets() ([]func(State), State) {
	targets := make([]func(State), len(s.subscribers))
	for i, sub := range s.subscribers {
		targets[i] = sub.fn
	}
	return targets, s.state
}

func deliver(targets []func(State), state State) {
	for _, fn := range targets {
		fn(state)
	}
}

// State returns the current snapshot.
func (s *Store[T]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Items returns a copy of the full record collection.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// Len returns the size of the full record collection.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Config returns the store's dimension configuration.
func (s *Store[T]) Config() Config[T] {
	return s.cfg
}

// FilteredItems returns the records matching every non-Any selection, order
// preserved.
func (s *Store[T]) FilteredItems() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filteredItems(s.items, s.cfg, s.state, s.res)
}

// AvailableOptions returns the named dimension's reachable options under the
// other dimensions' current selections.
func (s *Store[T]) AvailableOptions(name string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return availableOptions(s.items, s.cfg, s.state, name, s.res)
}

// OptionCounts returns per-option match counts for the named dimension.
func (s *Store[T]) OptionCounts(name string) []OptionCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return optionCounts(s.items, s.cfg, s.state, name, s.res)
}

func (s *Store[T]) logChange(event ChangeLogEvent) {
	if s.changeLogger != nil {
		s.changeLogger.LogChange(event)
	}
}
