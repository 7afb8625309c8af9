package facets

import (
	"encoding/json"
	"testing"
)

func TestDescriptorDefaultGenerator(t *testing.T) {
	store := New(garments, garmentConfig(t))
	store.Select("category", "Shirt")

	doc, err := store.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != FormatControls {
		t.Fatalf("expected controls format, got %q", doc.Format)
	}
	if doc.Revision != 1 || doc.SnapshotID == "" {
		t.Fatalf("expected snapshot provenance, got %+v", doc)
	}
	if len(doc.Controls) != 2 {
		t.Fatalf("expected one control per dimension, got %d", len(doc.Controls))
	}

	category := doc.Controls[0]
	if category.Name != "category" || category.Field != "category" {
		t.Fatalf("unexpected category control: %+v", category)
	}
	if category.Selection.Value() != "Shirt" {
		t.Fatalf("expected selection carried on control, got %v", category.Selection)
	}

	color := doc.Controls[1]
	byValue := map[any]OptionState{}
	for _, option := range color.Options {
		byValue[option.Value] = option
	}
	if !byValue["Red"].Available || byValue["Red"].Count != 1 {
		t.Fatalf("expected Red available with count 1, got %+v", byValue["Red"])
	}
	if byValue["Blue"].Available || byValue["Blue"].Count != 0 {
		t.Fatalf("expected Blue unavailable under Shirt, got %+v", byValue["Blue"])
	}
}

func TestDescriptorMarksSelectedOption(t *testing.T) {
	store := New(garments, garmentConfig(t))
	store.Select("color", "Red")

	doc, err := store.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, control := range doc.Controls {
		if control.Name != "color" {
			continue
		}
		for _, option := range control.Options {
			if option.Value == "Red" && !option.Selected {
				t.Fatalf("expected Red marked selected, got %+v", option)
			}
			if option.Value == "Blue" && option.Selected {
				t.Fatalf("expected Blue not selected, got %+v", option)
			}
		}
	}
}

func TestDescriptorEmptyStore(t *testing.T) {
	store := New(nil, Config[garment]{})

	doc, err := store.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Controls == nil || len(doc.Controls) != 0 {
		t.Fatalf("expected empty non-nil controls, got %+v", doc.Controls)
	}
}

func TestDescriptorSerializes(t *testing.T) {
	store := New(garments, garmentConfig(t))

	doc, err := store.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid json, got %s", raw)
	}
}

type formatOverrideGenerator struct{}

func (formatOverrideGenerator) Generate(view ControlsView) (ControlsDocument, error) {
	return ControlsDocument{Format: "custom", Revision: view.Revision}, nil
}

func TestWithDescriptorGenerator(t *testing.T) {
	store := New(garments, garmentConfig(t), WithDescriptorGenerator(formatOverrideGenerator{}))

	doc, err := store.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != "custom" {
		t.Fatalf("expected configured generator used, got %q", doc.Format)
	}
}
