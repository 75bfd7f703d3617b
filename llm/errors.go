package llm

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable indicates Ollama could not be reached or rejected the request.
var ErrModelUnavailable = errors.New("model service unavailable")

// ErrModelTimeout indicates a model call exceeded the configured timeout.
var ErrModelTimeout = errors.New("model call timed out")

// ErrMalformedResponse indicates the model output held no recognizable payload.
var ErrMalformedResponse = errors.New("malformed model response")

// SchemaViolationError reports a structurally valid payload whose fields break
// the expected schema. Field names the offending field.
type SchemaViolationError struct {
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation in field %q: %s", e.Field, e.Reason)
}

// IsParseError reports whether err is a parse-level failure (malformed payload
// or schema violation) as opposed to a transport failure.
func IsParseError(err error) bool {
	var sv *SchemaViolationError
	return errors.Is(err, ErrMalformedResponse) || errors.As(err, &sv)
}
