package facets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-facets/pkg/activity"
	"github.com/google/uuid"
)

// AnyLiteral is the wire representation of the wildcard selection.
const AnyLiteral = "Any"

// Selection is the value currently chosen for a dimension: either one concrete
// option value or the Any wildcard meaning "no constraint".
type Selection struct {
	value    any
	wildcard bool
}

// Any is the wildcard selection. A dimension set to Any never constrains the
// filtered collection.
var Any = Selection{wildcard: true}

// SelectionOf wraps a concrete option value as a Selection. Passing nil, Any
// itself, or the literal string "Any" yields the wildcard.
func SelectionOf(value any) Selection {
	if isWildcard(value) {
		return Any
	}
	return Selection{value: value}
}

func isWildcard(value any) bool {
	if value == nil {
		return true
	}
	if sel, ok := value.(Selection); ok {
		return sel.wildcard
	}
	if s, ok := value.(string); ok && s == AnyLiteral {
		return true
	}
	return false
}

// IsAny reports whether the selection is the wildcard.
func (s Selection) IsAny() bool {
	return s.wildcard
}

// Value returns the concrete option value, or nil for the wildcard.
func (s Selection) Value() any {
	if s.wildcard {
		return nil
	}
	return s.value
}

// Matches reports whether candidate equals the selection under canonical
// comparison. The wildcard matches everything.
func (s Selection) Matches(candidate any) bool {
	if s.wildcard {
		return true
	}
	return canonicalValue(s.value) == canonicalValue(candidate)
}

func (s Selection) String() string {
	if s.wildcard {
		return AnyLiteral
	}
	return fmt.Sprintf("%v", s.value)
}

// MarshalJSON encodes the wildcard as the literal string "Any" and a concrete
// selection as its value.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.wildcard {
		return json.Marshal(AnyLiteral)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (s *Selection) UnmarshalJSON(payload []byte) error {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return err
	}
	*s = SelectionOf(raw)
	return nil
}

// canonicalValue reduces a primitive option value to its canonical comparable
// form. Every numeric kind collapses to float64 so a YAML 2 and a JSON 2.0
// denote the same logical option; strings and bools compare as themselves.
func canonicalValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return typed
	case bool:
		return typed
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// optionLabel renders a value the way UIs display it. Canonical floats with no
// fraction print as integers so the label matches the source configuration.
func optionLabel(value any) string {
	if f, ok := canonicalValue(value).(float64); ok {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}

// State is one immutable filter-state snapshot: the selection for every
// configured dimension plus provenance identifying the mutation that produced
// it. A zero State treats every dimension as Any.
type State struct {
	revision   uint64
	snapshotID string
	order      []string
	selections map[string]Selection
}

func newState(order []string) State {
	selections := make(map[string]Selection, len(order))
	for _, name := range order {
		selections[name] = Any
	}
	return State{
		snapshotID: uuid.NewString(),
		order:      append([]string(nil), order...),
		selections: selections,
	}
}

// Revision is the monotonically increasing mutation counter, starting at 0 for
// the construction snapshot.
func (s State) Revision() uint64 {
	return s.revision
}

// SnapshotID uniquely identifies this snapshot for audit trails.
func (s State) SnapshotID() string {
	return s.snapshotID
}

// Dimensions returns the configured dimension names in configuration order.
func (s State) Dimensions() []string {
	return append([]string(nil), s.order...)
}

// Selection returns the selection for name, or Any when name is unknown.
func (s State) Selection(name string) Selection {
	if sel, ok := s.selections[name]; ok {
		return sel
	}
	return Any
}

// IsAny reports whether name is currently unconstrained.
func (s State) IsAny(name string) bool {
	return s.Selection(name).IsAny()
}

// withSelection returns a new snapshot with name set to sel, bumping revision
// and minting a fresh snapshot ID. The receiver is left untouched.
func (s State) withSelection(name string, sel Selection) State {
	next := s.cloneSelections()
	next.selections[name] = sel
	return next
}

func (s State) cloneSelections() State {
	selections := make(map[string]Selection, len(s.selections))
	for name, sel := range s.selections {
		selections[name] = sel
	}
	return State{
		revision:   s.revision + 1,
		snapshotID: uuid.NewString(),
		order:      s.order,
		selections: selections,
	}
}

type stateDocument struct {
	Revision   uint64               `json:"revision"`
	SnapshotID string               `json:"snapshot_id"`
	Selections map[string]Selection `json:"selections"`
}

// MarshalJSON encodes the snapshot with its provenance fields.
func (s State) MarshalJSON() ([]byte, error) {
	selections := make(map[string]Selection, len(s.selections))
	for name, sel := range s.selections {
		selections[name] = sel
	}
	return json.Marshal(stateDocument{
		Revision:   s.revision,
		SnapshotID: s.snapshotID,
		Selections: selections,
	})
}

// Policy selects how the store treats cross-dimension conflicts on Select.
type Policy string

const (
	// PolicyNaive overwrites only the named dimension and never touches other
	// selections, even when they become unreachable under the new choice.
	PolicyNaive Policy = "naive"
	// PolicyReconcile additionally clears every other dimension whose
	// selection is no longer reachable, iterating to a fixed point, so the
	// stored state never holds a cross-dimension conflict.
	PolicyReconcile Policy = "reconcile"
)

// OptionCount pairs one configured option value with the number of records
// that would remain if it were selected.
type OptionCount struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// RecordContext carries inputs needed when extracting a value from a record.
type RecordContext struct {
	Record    map[string]any
	Dimension string
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
}

func (ctx RecordContext) withDefaultNow() RecordContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RecordContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RecordContext) withDefaultMaps() RecordContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RecordContext) withDefaults() RecordContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RecordContext) dimensionLabel() string {
	if ctx.Dimension != "" {
		return ctx.Dimension
	}
	return "unknown"
}

// Extractor computes a dimension value from a record binding by evaluating an
// expression.
type Extractor interface {
	Extract(ctx RecordContext, expression string) (any, error)
	Compile(expression string, opts ...CompileOption) (CompiledExtractor, error)
}

// CompiledExtractor represents a reusable expression program.
type CompiledExtractor interface {
	Extract(ctx RecordContext) (any, error)
}

// CompileOption configures extractor compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// StoreOption configures a Store at construction time.
type StoreOption func(*storeConfig)

type storeConfig struct {
	policy              Policy
	extractor           Extractor
	programCache        ProgramCache
	functions           *FunctionRegistry
	extractorLogger     ExtractorLogger
	changeLogger        ChangeLogger
	descriptorGenerator DescriptorGenerator
	activityHooks       activity.Hooks
}

func applyStoreOptions(opts []StoreOption) storeConfig {
	cfg := storeConfig{policy: PolicyNaive}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithPolicy selects the conflict policy applied on Select. PolicyNaive is
// the default; consumers that want self-consistent state opt in to
// PolicyReconcile. Unknown values are ignored.
func WithPolicy(policy Policy) StoreOption {
	return func(cfg *storeConfig) {
		switch policy {
		case PolicyNaive, PolicyReconcile:
			cfg.policy = policy
		}
	}
}

// WithExtractor configures the expression engine used for computed dimensions.
func WithExtractor(extractor Extractor) StoreOption {
	return func(cfg *storeConfig) {
		cfg.extractor = extractor
	}
}
