package models

import "fmt"

// ValidationError reports a missing or malformed record field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
