// Package validation collects field-level rule violations and converts them
// into a single validation error.
package validation

import (
	"fmt"
	"strings"

	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
)

// Violation names the field and the rule it broke.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

type Violations []Violation

func (v *Violations) Add(field, constraint, format string, args ...any) {
	*v = append(*v, Violation{
		Field:      field,
		Constraint: constraint,
		Message:    fmt.Sprintf(format, args...),
	})
}

// Has reports whether a violation was recorded for field.
func (v Violations) Has(field string) bool {
	for _, item := range v {
		if item.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when no violations were recorded.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	fields := make([]string, 0, len(v))
	for _, item := range v {
		fields = append(fields, item.Field)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+strings.Join(fields, ", ")).
		WithDetails(map[string]any{"violations": []Violation(v)})
}

// ViolationsOf extracts the recorded violations from an error produced by Err.
func ViolationsOf(err error) Violations {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return nil
	}
	list, _ := details["violations"].([]Violation)
	return list
}
