package query

import "fmt"

// ParseError reports a date string that does not match the expected
// calendar-date format. It fails only the filter call that received it.
type ParseError struct {
	Value  string
	Layout string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected format %s", e.Value, e.Layout)
}

// InputValidationError reports a caller-supplied argument rejected before
// any aggregation work begins.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}
