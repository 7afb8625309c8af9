package source

import (
	"context"
	"errors"
	"fmt"

	facets "github.com/goliatone/go-facets"
	"github.com/goliatone/go-facets/internal/hydrate"
)

// ErrNoSource indicates Build was called without a source.
var ErrNoSource = errors.New("source: source is required")

// Source supplies the fixed record collection a store is constructed over.
// Load is called once, synchronously, at construction time.
type Source[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

// MemorySource serves a slice held in memory. The slice is copied on
// construction and again on Load so callers cannot mutate served records.
type MemorySource[T any] struct {
	items []T
}

// NewMemorySource constructs a MemorySource over a defensive copy of items.
func NewMemorySource[T any](items []T) *MemorySource[T] {
	return &MemorySource[T]{items: append([]T(nil), items...)}
}

// Load returns a copy of the held records.
func (s *MemorySource[T]) Load(_ context.Context) ([]T, error) {
	if s == nil {
		return nil, nil
	}
	return append([]T(nil), s.items...), nil
}

// JSONSource decodes a JSON array payload into records through the hydrate
// decoder. The payload is bytes the caller already read; this package never
// touches the filesystem or network.
type JSONSource[T any] struct {
	collection string
	payload    []byte
	decoder    *hydrate.Decoder[T]
}

// NewJSONSource constructs a JSONSource for payload. The collection name only
// labels decode errors.
func NewJSONSource[T any](collection string, payload []byte, opts ...hydrate.DecoderOption[T]) *JSONSource[T] {
	return &JSONSource[T]{
		collection: collection,
		payload:    append([]byte(nil), payload...),
		decoder:    hydrate.NewDecoder(opts...),
	}
}

// Load decodes the payload into records.
func (s *JSONSource[T]) Load(_ context.Context) ([]T, error) {
	if s == nil {
		return nil, nil
	}
	items, err := s.decoder.DecodeList(s.collection, s.payload)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return items, nil
}

// Build loads src once and constructs a store over the result. Data is still
// fixed at construction; Build is a loading convenience, not async supply.
func Build[T any](ctx context.Context, src Source[T], cfg facets.Config[T], opts ...facets.StoreOption) (*facets.Store[T], error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if ctx == nil {
		ctx = context.Background()
	}
	items, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: load: %w", err)
	}
	return facets.New(items, cfg, opts...), nil
}
