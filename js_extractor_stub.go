//go:build !js_eval

package facets

// NewJSExtractor is unavailable without the js_eval build tag.
func NewJSExtractor(opts ...JSExtractorOption) Extractor {
	_ = applyJSExtractorOptions(opts)
	return nil
}

func jsExtractorAvailable() bool {
	return false
}
