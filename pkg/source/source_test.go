package source

import (
	"context"
	"reflect"
	"testing"

	facets "github.com/goliatone/go-facets"
)

type garment struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
}

var garments = []garment{
	{Category: "Shirt", Color: "Red", Price: 25},
	{Category: "Pants", Color: "Blue", Price: 40},
	{Category: "Shirt", Color: "Black", Price: 30},
}

const garmentJSON = `[
  {"category": "Shirt", "color": "Red", "price": 25},
  {"category": "Pants", "color": "Blue", "price": 40},
  {"category": "Shirt", "color": "Black", "price": 30}
]`

// sourceContract exercises the behavior every Source implementation must
// honor: a full, stable collection on every Load.
func sourceContract(t *testing.T, newSource func() Source[garment]) {
	t.Helper()

	t.Run("loads the full collection", func(t *testing.T) {
		src := newSource()
		items, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(items, garments) {
			t.Fatalf("expected %+v, got %+v", garments, items)
		}
	})

	t.Run("repeated loads are identical", func(t *testing.T) {
		src := newSource()
		first, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected stable loads, got %+v vs %+v", first, second)
		}
	})

	t.Run("loaded slice is caller-owned", func(t *testing.T) {
		src := newSource()
		first, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first[0].Category = "Mutated"
		second, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second[0].Category != "Shirt" {
			t.Fatalf("expected source unaffected by caller mutation, got %q", second[0].Category)
		}
	})
}

func TestMemorySourceContract(t *testing.T) {
	sourceContract(t, func() Source[garment] {
		return NewMemorySource(garments)
	})
}

func TestJSONSourceContract(t *testing.T) {
	sourceContract(t, func() Source[garment] {
		return NewJSONSource[garment]("garments", []byte(garmentJSON))
	})
}

func TestMemorySourceCopiesInput(t *testing.T) {
	items := append([]garment(nil), garments...)
	src := NewMemorySource(items)
	items[0].Category = "Mutated"

	loaded, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded[0].Category != "Shirt" {
		t.Fatalf("expected construction-time copy, got %q", loaded[0].Category)
	}
}

func TestJSONSourceRejectsMalformedPayload(t *testing.T) {
	src := NewJSONSource[garment]("garments", []byte("{not json"))
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestBuildConstructsStore(t *testing.T) {
	cfg, err := facets.NewConfig(
		facets.NewDimension[garment]("category", []any{"Shirt", "Pants", "Jacket"}),
		facets.NewDimension[garment]("color", []any{"Red", "Blue", "Black"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := Build(context.Background(), NewJSONSource[garment]("garments", []byte(garmentJSON)), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.Select("category", "Shirt")
	if got := len(store.FilteredItems()); got != 2 {
		t.Fatalf("expected two Shirt rows, got %d", got)
	}
}

func TestBuildRequiresSource(t *testing.T) {
	if _, err := Build[garment](context.Background(), nil, facets.Config[garment]{}); err == nil {
		t.Fatalf("expected ErrNoSource")
	}
}
