package receipt

import (
	"fmt"
	"strings"
	"time"
)

// The pipeline has exactly four terminal failure modes. All of them abort
// the run that raised them; none is recovered internally and no partial
// output is ever returned alongside one.

// RenderTimeoutError reports that the verification page did not finish
// client-side rendering within the configured bound. Retryable by the
// caller with a fresh run.
type RenderTimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("page did not render within %s: %s", e.Timeout, e.URL)
}

// ExtractionError reports that a structurally required element was absent
// from the rendered document. Not retryable: it indicates the portal layout
// changed.
type ExtractionError struct {
	Field Field
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("required element missing from rendered page: %s", e.Field)
}

// NumberParseError reports numeric text that could not be normalized. The
// offending raw text is carried verbatim for diagnosis; it is never
// silently coerced to zero.
type NumberParseError struct {
	Text string
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("cannot parse number from %q", e.Text)
}

// FieldFault is one field-level validation failure.
type FieldFault struct {
	Field  Field
	Reason string
}

func (f FieldFault) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Reason)
}

// ValidationError aggregates every field-level failure found in one raw
// field set, so a caller can report the complete diagnosis in one pass
// instead of fixing fields one at a time.
type ValidationError struct {
	Faults []FieldFault
}

func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Faults))
	for _, f := range e.Faults {
		reasons = append(reasons, f.String())
	}
	return fmt.Sprintf("receipt validation failed: %s", strings.Join(reasons, "; "))
}

// Fields returns the names of all offending fields.
func (e *ValidationError) Fields() []Field {
	fields := make([]Field, 0, len(e.Faults))
	for _, f := range e.Faults {
		fields = append(fields, f.Field)
	}
	return fields
}

// Has reports whether the aggregate names the given field.
func (e *ValidationError) Has(field Field) bool {
	for _, f := range e.Faults {
		if f.Field == field {
			return true
		}
	}
	return false
}
