//go:build js_eval

package facets

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsExtractor struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSExtractor constructs an Extractor backed by goja.
func NewJSExtractor(opts ...JSExtractorOption) Extractor {
	cfg := applyJSExtractorOptions(opts)
	return &jsExtractor{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsExtractor) Extract(ctx RecordContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	if e.cache == nil {
		return e.run(ctx, expression, nil)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program)
}

func (e *jsExtractor) Compile(expression string, _ ...CompileOption) (CompiledExtractor, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledExtractor{
		extractor:  e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *jsExtractor) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(expression), false)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *jsExtractor) run(ctx RecordContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	e.injectContext(vm, ctx)
	if program != nil {
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, err
		}
		return value.Export(), nil
	}
	value, err := vm.RunString(e.wrapExpression(expression))
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func (e *jsExtractor) injectContext(vm *goja.Runtime, ctx RecordContext) {
	vm.Set("now", ctx.timestamp())
	vm.Set("args", ctx.Args)
	vm.Set("metadata", ctx.Metadata)
	vm.Set("dimension", ctx.Dimension)
	for key, value := range ctx.Record {
		vm.Set(key, value)
	}
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

func (e *jsExtractor) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsCompiledExtractor struct {
	extractor  *jsExtractor
	expression string
	program    *goja.Program
}

func (c *jsCompiledExtractor) Extract(ctx RecordContext) (any, error) {
	if c.extractor == nil {
		return nil, fmt.Errorf("js compiled extractor missing engine")
	}
	ctx = ctx.withDefaults()
	return c.extractor.run(ctx, c.expression, c.program)
}

func jsExtractorAvailable() bool {
	return true
}
