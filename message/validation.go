package message

import "fmt"

// ValidationResult is the structured outcome of validating a message or a
// protocol step. Errors are blocking; warnings are advisory and never affect
// OK(). Results travel as data, not as Go errors, so callers can distinguish
// the two severities and decide what to do.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid constructs an empty, passing result.
func Valid() ValidationResult { return ValidationResult{} }

// OK reports whether the result carries no blocking errors. Value receiver
// so results returned by value support chained checks.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// AddError appends a blocking error.
func (r *ValidationResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddWarning appends an advisory warning.
func (r *ValidationResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another result into this one, preserving order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
