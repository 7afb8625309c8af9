package facets

type jsExtractorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSExtractorOption configures the JS extractor.
type JSExtractorOption func(*jsExtractorConfig)

// JSWithProgramCache applies a ProgramCache to the JS extractor.
func JSWithProgramCache(cache ProgramCache) JSExtractorOption {
	return func(cfg *jsExtractorConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry applies a FunctionRegistry to the JS extractor.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSExtractorOption {
	return func(cfg *jsExtractorConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSExtractorOptions(opts []JSExtractorOption) jsExtractorConfig {
	cfg := jsExtractorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
