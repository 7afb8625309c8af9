package facets

import (
	"encoding/json"
	"testing"
)

func TestExplainReachableValue(t *testing.T) {
	store := New(garments, garmentConfig(t))
	store.Select("category", "Shirt")

	trace := store.Explain("color", "Red")
	if !trace.Known || !trace.Reachable {
		t.Fatalf("expected Red reachable under Shirt, got %+v", trace)
	}
	if trace.Matches != 1 {
		t.Fatalf("expected one matching record, got %d", trace.Matches)
	}
	if len(trace.Blockers) != 1 || trace.Blockers[0].Dimension != "category" {
		t.Fatalf("expected one category blocker entry, got %+v", trace.Blockers)
	}
	if trace.Blockers[0].Survivors != 1 {
		t.Fatalf("expected one Red record surviving category=Shirt, got %d", trace.Blockers[0].Survivors)
	}
}

func TestExplainBlockedValue(t *testing.T) {
	store := New(garments, garmentConfig(t))
	store.Select("category", "Shirt")

	trace := store.Explain("color", "Blue")
	if trace.Reachable {
		t.Fatalf("expected Blue unreachable under Shirt, got %+v", trace)
	}
	if trace.Matches != 0 {
		t.Fatalf("expected no matches, got %d", trace.Matches)
	}
	if len(trace.Blockers) != 1 || trace.Blockers[0].Survivors != 0 {
		t.Fatalf("expected category to block every Blue record, got %+v", trace.Blockers)
	}
}

func TestExplainUnknownDimension(t *testing.T) {
	store := New(garments, garmentConfig(t))

	trace := store.Explain("size", "XL")
	if trace.Known || trace.Reachable || trace.Matches != 0 {
		t.Fatalf("expected zero trace for unknown dimension, got %+v", trace)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		Dimension: "color",
		Value:     "Blue",
		Known:     true,
		Reachable: false,
		Blockers: []Blocker{{
			Dimension: "category",
			Selection: SelectionOf("Shirt"),
			Survivors: 0,
		}},
	}
	raw, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid json, got %s", raw)
	}
	restore, err := TraceFromJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restore.Dimension != trace.Dimension || len(restore.Blockers) != len(trace.Blockers) {
		t.Fatalf("round trip mismatch: %+v vs %+v", restore, trace)
	}
	if restore.Blockers[0].Selection.Value() != "Shirt" {
		t.Fatalf("expected selection restored, got %v", restore.Blockers[0].Selection)
	}
}
