package jsonschema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	facets "github.com/goliatone/go-facets"
)

type generator struct{}

// NewGenerator constructs a descriptor generator that additionally derives a
// JSON-Schema description of the record shape from the view's sample record.
func NewGenerator() facets.DescriptorGenerator {
	return generator{}
}

// Option returns a facets.StoreOption that wires the JSON-Schema generator
// into a store.
func Option() facets.StoreOption {
	return facets.WithDescriptorGenerator(NewGenerator())
}

func (generator) Generate(view facets.ControlsView) (facets.ControlsDocument, error) {
	controls := view.Controls
	if controls == nil {
		controls = []facets.Control{}
	}
	doc := facets.ControlsDocument{
		Format:     facets.FormatJSONSchema,
		SnapshotID: view.SnapshotID,
		Revision:   view.Revision,
		Controls:   controls,
	}
	if view.Sample == nil {
		return doc, nil
	}
	schema, err := buildSchema(reflect.ValueOf(view.Sample))
	if err != nil {
		return facets.ControlsDocument{}, err
	}
	markFilterable(schema, controls)
	doc.Record = schema
	return doc, nil
}

// markFilterable annotates record properties bound by field-backed controls.
func markFilterable(schema map[string]any, controls []facets.Control) {
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return
	}
	for _, control := range controls {
		if control.Field == "" {
			continue
		}
		if property, ok := properties[control.Field].(map[string]any); ok {
			property["x-filterable"] = true
		}
	}
}

func buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"type": "null"}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		return buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		return schemaForStruct(rv)
	case reflect.Map:
		return schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("jsonschema: map key type %s unsupported", rv.Type().Key())
	}

	keys := rv.MapKeys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.Kind() != reflect.String {
			return nil, fmt.Errorf("jsonschema: map key kind %s unsupported", key.Kind())
		}
		names = append(names, key.String())
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := buildSchema(rv.MapIndex(reflect.ValueOf(name)))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	properties := map[string]any{}
	names := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		child, err := buildSchema(rv.Field(i))
		if err != nil {
			return nil, err
		}
		properties[name] = child
		names = append(names, name)
	}

	sort.Strings(names)
	ordered := make(map[string]any, len(names))
	for _, name := range names {
		ordered[name] = properties[name]
	}
	return map[string]any{
		"type":       "object",
		"properties": ordered,
	}, nil
}

func schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Len() == 0 {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{},
		}, nil
	}
	child, err := buildSchema(rv.Index(0))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":  "array",
		"items": child,
	}, nil
}
