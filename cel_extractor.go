package facets

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxCallArgs caps how many helper arguments call() accepts in CEL
// expressions; the other engines take arbitrary varargs.
const maxCallArgs = 4

// CELExtractorOption configures the CEL extractor.
type CELExtractorOption func(*celExtractor)

// CELWithProgramCache wires a ProgramCache into the CEL extractor.
func CELWithProgramCache(cache ProgramCache) CELExtractorOption {
	return func(e *celExtractor) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL extractor.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELExtractorOption {
	return func(e *celExtractor) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celExtractor struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELExtractor constructs an Extractor backed by cel-go.
func NewCELExtractor(opts ...CELExtractorOption) Extractor {
	e := &celExtractor{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celExtractor) Extract(ctx RecordContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	record := recordAsMap(ctx.Record)
	program, err := e.loadOrCompile(expression, record)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(ctx, record))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celExtractor) Compile(expression string, _ ...CompileOption) (CompiledExtractor, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	return &celCompiledExtractor{
		extractor:  e,
		expression: expression,
	}, nil
}

func (e *celExtractor) loadOrCompile(expression string, record map[string]any) (*celProgram, error) {
	if record == nil {
		record = map[string]any{}
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(record)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celExtractor) buildEnv(record map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("dimension", celgo.StringType),
	}
	if e.registry != nil {
		// CEL has no variadic declarations, so call is declared once per
		// arity up to maxCallArgs and bound to a single vararg function.
		callOpts := make([]celgo.FunctionOpt, 0, maxCallArgs+2)
		argTypes := []*celgo.Type{celgo.StringType}
		for i := 0; i <= maxCallArgs; i++ {
			callOpts = append(callOpts, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", i),
				append([]*celgo.Type(nil), argTypes...),
				celgo.DynType,
			))
			argTypes = append(argTypes, celgo.DynType)
		}
		callOpts = append(callOpts, celgo.SingletonFunctionBinding(e.callBinding()))
		opts = append(opts, celgo.Function("call", callOpts...))
	}
	for key := range record {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celExtractor) activation(ctx RecordContext, record map[string]any) map[string]any {
	activation := map[string]any{
		"now":       ctx.timestamp(),
		"args":      ctx.Args,
		"metadata":  ctx.Metadata,
		"dimension": ctx.Dimension,
	}
	for key, value := range record {
		activation[key] = value
	}
	if e.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return activation
}

type celCompiledExtractor struct {
	extractor  *celExtractor
	expression string
}

func (c *celCompiledExtractor) Extract(ctx RecordContext) (any, error) {
	if c.extractor == nil {
		return nil, fmt.Errorf("cel compiled extractor missing engine")
	}
	ctx = ctx.withDefaults()
	record := recordAsMap(ctx.Record)
	program, err := c.extractor.loadOrCompile(c.expression, record)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(c.extractor.activation(ctx, record))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func recordAsMap(record map[string]any) map[string]any {
	if record == nil {
		return map[string]any{}
	}
	return record
}

func (e *celExtractor) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("facets: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("facets: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("facets: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.WrapErr(err)
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
