package facets

import "time"

// ExtractionLogEvent describes one extraction attempt for logging.
type ExtractionLogEvent struct {
	Engine     string
	Expression string
	Dimension  string
	Duration   time.Duration
	Err        error
}

// ExtractorLogger records extractor events.
type ExtractorLogger interface {
	LogExtraction(ExtractionLogEvent)
}

// ExtractorLoggerFunc adapts a function to ExtractorLogger.
type ExtractorLoggerFunc func(ExtractionLogEvent)

// LogExtraction implements ExtractorLogger.
func (f ExtractorLoggerFunc) LogExtraction(event ExtractionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopExtractorLogger struct{}

func (noopExtractorLogger) LogExtraction(ExtractionLogEvent) {}

// WithExtractorLogger attaches an extractor logger to the store.
func WithExtractorLogger(logger ExtractorLogger) StoreOption {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.extractorLogger = noopExtractorLogger{}
			return
		}
		cfg.extractorLogger = logger
	}
}

// Change verbs reported through the ChangeLogger.
const (
	ChangeVerbSelect    = "select"
	ChangeVerbClear     = "clear"
	ChangeVerbReset     = "reset"
	ChangeVerbReconcile = "reconcile"
)

// ChangeLogEvent describes one mutation attempt on the store. Ignored is set
// for unknown-dimension selects, which the store absorbs silently on the API
// surface but still surfaces here.
type ChangeLogEvent struct {
	Verb      string
	Dimension string
	Value     any
	Cleared   []string
	Revision  uint64
	Ignored   bool
}

// ChangeLogger records store mutation events.
type ChangeLogger interface {
	LogChange(ChangeLogEvent)
}

// ChangeLoggerFunc adapts a function to ChangeLogger.
type ChangeLoggerFunc func(ChangeLogEvent)

// LogChange implements ChangeLogger.
func (f ChangeLoggerFunc) LogChange(event ChangeLogEvent) {
	if f != nil {
		f(event)
	}
}

// WithChangeLogger attaches a mutation logger to the store.
func WithChangeLogger(logger ChangeLogger) StoreOption {
	return func(cfg *storeConfig) {
		cfg.changeLogger = logger
	}
}
