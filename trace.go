package facets

import (
	"encoding/json"
)

// Trace explains why one option value of one dimension is or is not reachable
// under the current filter state.
type Trace struct {
	Dimension string    `json:"dimension"`
	Value     any       `json:"value"`
	Known     bool      `json:"known"`
	Reachable bool      `json:"reachable"`
	Matches   int       `json:"matches"`
	Blockers  []Blocker `json:"blockers,omitempty"`
}

// Blocker details how one other dimension's selection constrains the traced
// value: Survivors counts the records carrying the value that satisfy this
// dimension's selection alone.
type Blocker struct {
	Dimension string    `json:"dimension"`
	Selection Selection `json:"selection"`
	Survivors int       `json:"survivors"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Explain traces the reachability of value in the named dimension under the
// current state. Matches counts records carrying the value that satisfy every
// other dimension's selection; one Blocker entry is produced per other
// non-Any dimension. An unknown dimension yields a zero trace with Known
// false.
func (s *Store[T]) Explain(name string, value any) Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dim, ok := s.cfg.dimension(name)
	if !ok {
		return Trace{Dimension: name, Value: value}
	}

	trace := Trace{
		Dimension: name,
		Value:     value,
		Known:     true,
		Matches:   reachableCount(s.items, s.cfg, s.state, s.res, dim, value, false),
	}
	trace.Reachable = trace.Matches > 0

	want := canonicalValue(value)
	for _, other := range s.cfg.dims {
		if other.Name == name {
			continue
		}
		sel := s.state.Selection(other.Name)
		if sel.IsAny() {
			continue
		}
		survivors := 0
		for _, item := range s.items {
			got, ok := s.res.value(dim, item)
			if !ok || canonicalValue(got) != want {
				continue
			}
			otherValue, ok := s.res.value(other, item)
			if ok && sel.Matches(otherValue) {
				survivors++
			}
		}
		trace.Blockers = append(trace.Blockers, Blocker{
			Dimension: other.Name,
			Selection: sel,
			Survivors: survivors,
		})
	}
	return trace
}
