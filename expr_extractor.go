package facets

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprExtractorOption configures an expr extractor instance.
type ExprExtractorOption func(*exprExtractor)

// ExprWithProgramCache wires a ProgramCache into the expr extractor.
func ExprWithProgramCache(cache ProgramCache) ExprExtractorOption {
	return func(e *exprExtractor) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr extractor.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprExtractorOption {
	return func(e *exprExtractor) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprExtractor computes dimension values using github.com/expr-lang/expr.
type exprExtractor struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprExtractor constructs an Extractor backed by expr-lang/expr.
func NewExprExtractor(opts ...ExprExtractorOption) Extractor {
	e := &exprExtractor{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Extract compiles and runs expression against ctx.Record.
func (e *exprExtractor) Extract(ctx RecordContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapExtractorError("expr", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaults()
	env := e.environment(ctx)
	if e.cache == nil {
		result, err := exprlang.Eval(expression, env)
		if err != nil {
			return nil, wrapExtractionError("expr", expression, ctx.dimensionLabel(), err)
		}
		return result, nil
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapExtractionError("expr", expression, ctx.dimensionLabel(), err)
	}
	return result, nil
}

// Compile returns a compiled extractor that evaluates expression per record.
func (e *exprExtractor) Compile(expression string, _ ...CompileOption) (CompiledExtractor, error) {
	if expression == "" {
		return nil, wrapExtractorError("expr", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &exprCompiledExtractor{
		extractor:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *exprExtractor) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapExtractionError("expr", expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type exprCompiledExtractor struct {
	extractor  *exprExtractor
	program    *exprvm.Program
	expression string
}

func (c *exprCompiledExtractor) Extract(ctx RecordContext) (any, error) {
	if c.extractor == nil {
		return nil, wrapExtractorError("expr", fmt.Errorf("compiled extractor missing engine"))
	}
	ctx = ctx.withDefaults()
	if c.program == nil {
		return c.extractor.Extract(ctx, c.expression)
	}
	env := c.extractor.environment(ctx)
	result, err := exprlang.Run(c.program, env)
	if err != nil {
		return nil, wrapExtractionError("expr", c.expression, ctx.dimensionLabel(), err)
	}
	return result, nil
}

func (e *exprExtractor) environment(ctx RecordContext) map[string]any {
	env := map[string]any{
		"now":       ctx.timestamp(),
		"args":      ctx.Args,
		"metadata":  ctx.Metadata,
		"dimension": ctx.Dimension,
	}
	for key, value := range ctx.Record {
		env[key] = value
	}
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (e *exprExtractor) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprExtractor) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
