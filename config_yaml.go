package facets

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoDimensions indicates a config document without dimensions.
	ErrNoDimensions = errors.New("facets: config document must declare at least one dimension")
	// ErrAmbiguousBinding indicates a dimension document declaring both a
	// field and an expression.
	ErrAmbiguousBinding = errors.New("facets: field and expression are mutually exclusive")
)

// ConfigDocument is the declarative YAML shape of a dimension configuration.
// It covers field and expression bindings; Go-func extractors are API-only.
type ConfigDocument struct {
	Dimensions []DimensionDocument `yaml:"dimensions" json:"dimensions"`
}

// DimensionDocument declares one dimension.
type DimensionDocument struct {
	Name       string `yaml:"name" json:"name"`
	Label      string `yaml:"label,omitempty" json:"label,omitempty"`
	Field      string `yaml:"field,omitempty" json:"field,omitempty"`
	Expression string `yaml:"expression,omitempty" json:"expression,omitempty"`
	Options    []any  `yaml:"options" json:"options"`
}

// Validate checks the document before it is built into a Config.
func (d ConfigDocument) Validate() error {
	if len(d.Dimensions) == 0 {
		return ErrNoDimensions
	}
	seen := make(map[string]struct{}, len(d.Dimensions))
	for i, dim := range d.Dimensions {
		if dim.Name == "" {
			return fmt.Errorf("%w: dimension %d", ErrDimensionNameRequired, i)
		}
		if _, ok := seen[dim.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDimensionName, dim.Name)
		}
		seen[dim.Name] = struct{}{}
		if dim.Field != "" && dim.Expression != "" {
			return fmt.Errorf("%w: dimension %q", ErrAmbiguousBinding, dim.Name)
		}
	}
	return nil
}

// Config builds the validated document into a Config.
func (d ConfigDocument) Config() (Config[map[string]any], error) {
	return DocumentConfig[map[string]any](d)
}

// DocumentConfig builds a validated document into a Config for record type T.
func DocumentConfig[T any](d ConfigDocument) (Config[T], error) {
	if err := d.Validate(); err != nil {
		return Config[T]{}, err
	}
	dims := make([]Dimension[T], 0, len(d.Dimensions))
	for _, doc := range d.Dimensions {
		dims = append(dims, Dimension[T]{
			Name:       doc.Name,
			Label:      doc.Label,
			Field:      doc.Field,
			Expression: doc.Expression,
			Options:    append([]any(nil), doc.Options...),
		})
	}
	return NewConfig(dims...)
}

// ParseConfig decodes a YAML payload into a validated Config for record type
// T. The payload describes dimensions only; records never come from YAML.
func ParseConfig[T any](payload []byte) (Config[T], error) {
	var doc ConfigDocument
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return Config[T]{}, fmt.Errorf("facets: parse config: %w", err)
	}
	return DocumentConfig[T](doc)
}
