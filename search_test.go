package facets

import (
	"reflect"
	"testing"
)

func searchConfig(t *testing.T) Config[garment] {
	t.Helper()
	cfg, err := NewConfig(
		NewDimension[garment]("color", []any{"Red", "Ruby", "Blue", "Burgundy", "Black"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func TestSearchOptionsPrefixFirst(t *testing.T) {
	cfg := searchConfig(t)

	got := SearchOptions(cfg, "color", "bl")
	if !reflect.DeepEqual(got, []any{"Blue", "Black"}) {
		t.Fatalf("expected prefix matches in configured order, got %v", got)
	}
}

func TestSearchOptionsSubstringBand(t *testing.T) {
	cfg := searchConfig(t)

	got := SearchOptions(cfg, "color", "u")
	// Ruby, Blue, Burgundy contain "u"; none starts with it.
	if !reflect.DeepEqual(got, []any{"Ruby", "Blue", "Burgundy"}) {
		t.Fatalf("expected substring matches in configured order, got %v", got)
	}
}

func TestSearchOptionsFuzzyBand(t *testing.T) {
	cfg := searchConfig(t)

	got := SearchOptions(cfg, "color", "rad")
	found := false
	for _, option := range got {
		if option == "Red" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected typo-tolerant match for Red, got %v", got)
	}
}

func TestSearchOptionsEmptyQueryReturnsAll(t *testing.T) {
	cfg := searchConfig(t)

	got := SearchOptions(cfg, "color", "")
	if !reflect.DeepEqual(got, []any{"Red", "Ruby", "Blue", "Burgundy", "Black"}) {
		t.Fatalf("expected all configured options, got %v", got)
	}
}

func TestSearchOptionsUnknownDimension(t *testing.T) {
	cfg := searchConfig(t)

	if got := SearchOptions(cfg, "size", "x"); len(got) != 0 {
		t.Fatalf("expected empty result for unknown dimension, got %v", got)
	}
}

func TestSearchOptionsDeduplicates(t *testing.T) {
	cfg, err := NewConfig(
		NewDimension[garment]("color", []any{"Red", "Red", "Ruby"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := SearchOptions(cfg, "color", "r")
	if !reflect.DeepEqual(got, []any{"Red", "Ruby"}) {
		t.Fatalf("expected duplicates collapsed, got %v", got)
	}
}

func TestStoreSearchOptions(t *testing.T) {
	store := New(garments, searchConfig(t))

	got := store.SearchOptions("color", "bl")
	if !reflect.DeepEqual(got, []any{"Blue", "Black"}) {
		t.Fatalf("expected store delegation, got %v", got)
	}
}
