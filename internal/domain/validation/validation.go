// Package validation carries multi-violation input errors. Callers get the
// complete list of problems in one pass rather than the first failure.
package validation

import "strings"

// Error is an input-validation failure holding every detected violation.
type Error struct {
	Violations []string `json:"violations"`
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Add appends a violation message.
func (e *Error) Add(msg string) {
	e.Violations = append(e.Violations, msg)
}

// OrNil returns the error if any violations were collected, nil otherwise.
func (e *Error) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
