package facets

// Derivations are pure, total functions from (items, config, state) to the
// filtered collection and per-dimension reachable option lists. They never
// fail: unknown dimensions yield empty results and extraction failures make a
// record contribute no value. The Store's read API delegates here.

// FilteredItems returns the subsequence of items matching every non-Any
// selection in state, preserving the original order.
func FilteredItems[T any](items []T, cfg Config[T], state State) []T {
	return filteredItems(items, cfg, state, defaultResolver[T]())
}

// AvailableOptions returns the subset of dim's configured option list that is
// reachable under every other dimension's current selection. The target
// dimension's own selection is ignored so it never disables its current
// choice. Output preserves configured order, deduplicated by canonical form.
func AvailableOptions[T any](items []T, cfg Config[T], state State, dim string) []any {
	return availableOptions(items, cfg, state, dim, defaultResolver[T]())
}

// OptionCounts returns one entry per configured option of dim (deduplicated,
// configured order) with the number of records reachable under the same rule
// AvailableOptions applies. Zero counts are included.
func OptionCounts[T any](items []T, cfg Config[T], state State, dim string) []OptionCount {
	return optionCounts(items, cfg, state, dim, defaultResolver[T]())
}

func filteredItems[T any](items []T, cfg Config[T], state State, res *resolver[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, cfg, state, res, "") {
			out = append(out, item)
		}
	}
	return out
}

// matchesAll reports whether item satisfies every non-Any selection, skipping
// the dimension named by exclude.
func matchesAll[T any](item T, cfg Config[T], state State, res *resolver[T], exclude string) bool {
	for _, dim := range cfg.dims {
		if dim.Name == exclude {
			continue
		}
		sel := state.Selection(dim.Name)
		if sel.IsAny() {
			continue
		}
		value, ok := res.value(dim, item)
		if !ok || !sel.Matches(value) {
			return false
		}
	}
	return true
}

func availableOptions[T any](items []T, cfg Config[T], state State, name string, res *resolver[T]) []any {
	dim, ok := cfg.dimension(name)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(dim.Options))
	seen := make(map[any]struct{}, len(dim.Options))
	for _, option := range dim.Options {
		key := canonicalValue(option)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if reachableCount(items, cfg, state, res, dim, option, true) > 0 {
			out = append(out, option)
		}
	}
	return out
}

func optionCounts[T any](items []T, cfg Config[T], state State, name string, res *resolver[T]) []OptionCount {
	dim, ok := cfg.dimension(name)
	if !ok {
		return []OptionCount{}
	}
	out := make([]OptionCount, 0, len(dim.Options))
	seen := make(map[any]struct{}, len(dim.Options))
	for _, option := range dim.Options {
		key := canonicalValue(option)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, OptionCount{
			Value: option,
			Count: reachableCount(items, cfg, state, res, dim, option, false),
		})
	}
	return out
}

// reachableCount counts records that carry option in dim and survive every
// other dimension's selection. With firstOnly it stops at the first match,
// which is all availability needs.
func reachableCount[T any](items []T, cfg Config[T], state State, res *resolver[T], dim Dimension[T], option any, firstOnly bool) int {
	want := canonicalValue(option)
	count := 0
	for _, item := range items {
		value, ok := res.value(dim, item)
		if !ok || canonicalValue(value) != want {
			continue
		}
		if !matchesAll(item, cfg, state, res, dim.Name) {
			continue
		}
		count++
		if firstOnly {
			return count
		}
	}
	return count
}
