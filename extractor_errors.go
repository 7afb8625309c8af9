package facets

import (
	"errors"
	"fmt"
	"strings"
)

// ExtractionError captures extractor metadata alongside the originating error.
type ExtractionError struct {
	Engine     string
	Expression string
	Dimension  string
	Err        error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("facets: %s extractor %s dimension=%s: %v", e.Engine, describeExpression(e.Expression), e.Dimension, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expression string) string {
	if expression == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expression)
}

func wrapExtractorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "facets:") {
		return err
	}
	return fmt.Errorf("facets: %s extractor: %w", engine, err)
}

func wrapExtractionError(engine, expression, dimension string, err error) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		if extractErr.Engine == "" {
			extractErr.Engine = engine
		}
		if extractErr.Expression == "" {
			extractErr.Expression = expression
		}
		if extractErr.Dimension == "" {
			extractErr.Dimension = dimension
		}
		return extractErr
	}

	return &ExtractionError{
		Engine:     engine,
		Expression: expression,
		Dimension:  dimension,
		Err:        err,
	}
}
