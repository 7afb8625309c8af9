package facets

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDimensionNameRequired indicates a dimension with an empty name.
	ErrDimensionNameRequired = errors.New("facets: dimension name must be provided")
	// ErrDuplicateDimensionName indicates Config construction received
	// multiple dimensions with the same name.
	ErrDuplicateDimensionName = errors.New("facets: dimension names must be unique")
)

// Dimension describes one filterable attribute: a unique name, the static
// ordered candidate option list, and how a record's value for it is obtained.
//
// Value binding precedence: Extract > Expression > Field. When none is set the
// record field named by Name is used. Duplicate option values are harmless and
// collapse to the same logical option.
type Dimension[T any] struct {
	// Name uniquely identifies the dimension.
	Name string
	// Label is an optional human-facing caption; defaults to Name.
	Label string
	// Field names the record field carrying this dimension's value. Honors
	// json struct tags; falls back to Name when empty.
	Field string
	// Options is the static ordered candidate list.
	Options []any
	// Extract, when set, computes the value directly from the record.
	Extract func(record T) any
	// Expression, when set, is evaluated by the store's extractor engine
	// against the record binding.
	Expression string
}

func (d Dimension[T]) clone() Dimension[T] {
	out := d
	out.Options = append([]any(nil), d.Options...)
	return out
}

func (d Dimension[T]) label() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

func (d Dimension[T]) field() string {
	if d.Field != "" {
		return d.Field
	}
	return d.Name
}

// Config is an immutable, ordered dimension configuration. The zero value is
// an empty configuration.
type Config[T any] struct {
	dims  []Dimension[T]
	index map[string]int
}

// NewConfig validates and assembles a configuration. Dimensions and their
// option slices are copied so later caller mutation cannot leak in. Empty
// option lists are accepted; such a dimension simply never offers a reachable
// option.
func NewConfig[T any](dims ...Dimension[T]) (Config[T], error) {
	if len(dims) == 0 {
		return Config[T]{}, nil
	}
	copied := make([]Dimension[T], len(dims))
	index := make(map[string]int, len(dims))
	for i, dim := range dims {
		if dim.Name == "" {
			return Config[T]{}, ErrDimensionNameRequired
		}
		if _, ok := index[dim.Name]; ok {
			return Config[T]{}, fmt.Errorf("%w: %s", ErrDuplicateDimensionName, dim.Name)
		}
		index[dim.Name] = i
		copied[i] = dim.clone()
	}
	return Config[T]{dims: copied, index: index}, nil
}

// ConfigFromMap builds a configuration from a name-to-options mapping.
// Dimensions are ordered by sorted name so the result is deterministic; empty
// names are skipped.
func ConfigFromMap[T any](options map[string][]any) Config[T] {
	names := make([]string, 0, len(options))
	for name := range options {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	dims := make([]Dimension[T], 0, len(names))
	for _, name := range names {
		dims = append(dims, Dimension[T]{
			Name:    name,
			Options: append([]any(nil), options[name]...),
		})
	}
	cfg, err := NewConfig(dims...)
	if err != nil {
		// Names are non-empty and map keys are unique, so this cannot fire.
		return Config[T]{}
	}
	return cfg
}

// Dimensions returns a defensive copy of the configured dimensions in order.
func (c Config[T]) Dimensions() []Dimension[T] {
	if len(c.dims) == 0 {
		return nil
	}
	out := make([]Dimension[T], len(c.dims))
	for i := range c.dims {
		out[i] = c.dims[i].clone()
	}
	return out
}

// Dimension looks up a dimension by name.
func (c Config[T]) Dimension(name string) (Dimension[T], bool) {
	i, ok := c.index[name]
	if !ok {
		return Dimension[T]{}, false
	}
	return c.dims[i].clone(), true
}

// Names returns the dimension names in configuration order.
func (c Config[T]) Names() []string {
	names := make([]string, len(c.dims))
	for i := range c.dims {
		names[i] = c.dims[i].Name
	}
	return names
}

// Len returns the number of configured dimensions.
func (c Config[T]) Len() int {
	return len(c.dims)
}

func (c Config[T]) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c Config[T]) dimension(name string) (Dimension[T], bool) {
	i, ok := c.index[name]
	if !ok {
		return Dimension[T]{}, false
	}
	return c.dims[i], true
}
