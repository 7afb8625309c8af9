package facets

// DimensionOption configures optional metadata on dimension construction.
type DimensionOption[T any] func(*Dimension[T])

// WithLabel sets a human-friendly caption on the dimension.
func WithLabel[T any](label string) DimensionOption[T] {
	return func(d *Dimension[T]) {
		d.Label = label
	}
}

// WithField binds the dimension to a record field other than its name.
func WithField[T any](field string) DimensionOption[T] {
	return func(d *Dimension[T]) {
		d.Field = field
	}
}

// NewDimension builds a field-bound dimension. Validation is deferred to
// Config construction so callers can assemble dimensions freely.
func NewDimension[T any](name string, options []any, opts ...DimensionOption[T]) Dimension[T] {
	d := Dimension[T]{
		Name:    name,
		Options: append([]any(nil), options...),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&d)
	}
	return d
}

// ComputedDimension builds a dimension whose value comes from a Go accessor
// instead of a record field.
func ComputedDimension[T any](name string, options []any, extract func(record T) any, opts ...DimensionOption[T]) Dimension[T] {
	d := NewDimension(name, options, opts...)
	d.Extract = extract
	return d
}

// ExpressionDimension builds a dimension whose value is produced by the
// store's extractor engine evaluating expression against the record binding.
func ExpressionDimension[T any](name string, options []any, expression string, opts ...DimensionOption[T]) Dimension[T] {
	d := NewDimension(name, options, opts...)
	d.Expression = expression
	return d
}
