package facets

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

var ErrNoExtractor = errors.New("facets: extractor not configured")

// resolver binds dimensions to record values, running the configured
// extractor engine for expression dimensions. The zero-ish resolver built by
// defaultResolver serves the pure package-level derivations.
type resolver[T any] struct {
	mu        sync.Mutex
	extractor Extractor
	cache     ProgramCache
	functions *FunctionRegistry
	logger    ExtractorLogger
}

func defaultResolver[T any]() *resolver[T] {
	return &resolver[T]{}
}

func (r *resolver[T]) extractorLogger() ExtractorLogger {
	if r.logger != nil {
		return r.logger
	}
	return noopExtractorLogger{}
}

// resolveExtractor returns the configured engine, lazily building the default
// expr engine with the resolver's cache and registry when none was supplied.
// Lazy initialization is guarded so derivations running under the store's
// read lock do not race.
func (r *resolver[T]) resolveExtractor() (Extractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.extractor != nil {
		return r.extractor, nil
	}
	var exprOpts []ExprExtractorOption
	if r.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(r.cache))
	}
	if r.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(r.functions))
	}
	defaultExtractor := NewExprExtractor(exprOpts...)
	if defaultExtractor == nil {
		return nil, ErrNoExtractor
	}
	r.extractor = defaultExtractor
	return defaultExtractor, nil
}

// value produces record's value for dim. The second return is false when the
// value could not be obtained; derivations treat such records as contributing
// no option value, keeping filtering and availability total.
func (r *resolver[T]) value(dim Dimension[T], record T) (any, bool) {
	if dim.Extract != nil {
		return dim.Extract(record), true
	}
	binding := bindRecord(record)
	if dim.Expression != "" {
		return r.evaluate(dim, binding)
	}
	value, ok := binding[dim.field()]
	return value, ok
}

func (r *resolver[T]) evaluate(dim Dimension[T], binding map[string]any) (any, bool) {
	extractor, err := r.resolveExtractor()
	if err != nil {
		r.extractorLogger().LogExtraction(ExtractionLogEvent{
			Expression: dim.Expression,
			Dimension:  dim.Name,
			Err:        err,
		})
		return nil, false
	}
	ctx := RecordContext{Record: binding, Dimension: dim.Name}.withDefaults()
	engine := extractorEngineName(extractor)
	start := time.Now()
	value, extractErr := extractor.Extract(ctx, dim.Expression)
	duration := time.Since(start)
	extractErr = wrapExtractionError("", dim.Expression, dim.Name, extractErr)
	r.extractorLogger().LogExtraction(ExtractionLogEvent{
		Engine:     engine,
		Expression: dim.Expression,
		Dimension:  dim.Name,
		Duration:   duration,
		Err:        extractErr,
	})
	if extractErr != nil {
		return nil, false
	}
	return value, true
}

func extractorEngineName(e Extractor) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*facets.exprExtractor":
		return "expr"
	case "*facets.celExtractor":
		return "cel"
	case "*facets.jsExtractor":
		return "js"
	default:
		return "custom"
	}
}

// bindRecord exposes a record as the flat map extractor environments and
// field lookups read from. String-keyed maps of any value type pass through;
// structs are reflected with json tags honored; anything else yields an empty
// binding.
func bindRecord(record any) map[string]any {
	if record == nil {
		return map[string]any{}
	}
	if m, ok := record.(map[string]any); ok {
		return m
	}

	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map {
		if rv.Type().Key().Kind() != reflect.String {
			return map[string]any{}
		}
		binding := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			binding[iter.Key().String()] = iter.Value().Interface()
		}
		return binding
	}
	if rv.Kind() != reflect.Struct {
		return map[string]any{}
	}

	rt := rv.Type()
	binding := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
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
		binding[name] = rv.Field(i).Interface()
	}
	return binding
}
