package facets

import (
	"errors"
	"reflect"
	"testing"
)

const garmentConfigYAML = `
dimensions:
  - name: category
    label: Category
    options: [Shirt, Pants, Jacket]
  - name: color
    options: [Red, Blue, Black]
  - name: tier
    expression: 'price >= 30 ? "premium" : "budget"'
    options: [budget, premium]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig[garment]([]byte(garmentConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Names(); !reflect.DeepEqual(got, []string{"category", "color", "tier"}) {
		t.Fatalf("expected document order preserved, got %v", got)
	}

	category, ok := cfg.Dimension("category")
	if !ok || category.Label != "Category" {
		t.Fatalf("expected labeled category dimension, got %+v", category)
	}
	tier, ok := cfg.Dimension("tier")
	if !ok || tier.Expression == "" {
		t.Fatalf("expected expression dimension, got %+v", tier)
	}
}

func TestParseConfigDrivesStore(t *testing.T) {
	cfg, err := ParseConfig[garment]([]byte(garmentConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := New(garments, cfg)
	store.Select("tier", "premium")
	want := []garment{garments[1], garments[2]}
	if got := store.FilteredItems(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected expression dimension to filter, got %+v", got)
	}
}

func TestConfigDocumentValidate(t *testing.T) {
	cases := []struct {
		name string
		doc  ConfigDocument
		want error
	}{
		{
			name: "no dimensions",
			doc:  ConfigDocument{},
			want: ErrNoDimensions,
		},
		{
			name: "empty name",
			doc: ConfigDocument{Dimensions: []DimensionDocument{
				{Name: "", Options: []any{"a"}},
			}},
			want: ErrDimensionNameRequired,
		},
		{
			name: "duplicate name",
			doc: ConfigDocument{Dimensions: []DimensionDocument{
				{Name: "color", Options: []any{"a"}},
				{Name: "color", Options: []any{"b"}},
			}},
			want: ErrDuplicateDimensionName,
		},
		{
			name: "field and expression",
			doc: ConfigDocument{Dimensions: []DimensionDocument{
				{Name: "tier", Field: "tier", Expression: "1"},
			}},
			want: ErrAmbiguousBinding,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.doc.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseConfigRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseConfig[garment]([]byte("dimensions: [")); err == nil {
		t.Fatalf("expected parse error for malformed payload")
	}
}
