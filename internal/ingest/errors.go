package ingest

import "fmt"

// MissingSourceError reports a required source file that is absent. The
// pipeline cannot proceed with partial inputs, so this aborts the run.
type MissingSourceError struct {
	Entity string
	Path   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("missing source for %s: %s", e.Entity, e.Path)
}

// SchemaError reports a required column that is absent from a source file.
type SchemaError struct {
	Source string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s is missing required column %q", e.Source, e.Column)
}
