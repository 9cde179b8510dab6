// server/internal/pharmacy/errors.go
package pharmacy

import "fmt"

// NotFoundError reports a missing prescription, medication, request or item.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// ConflictError reports an operation rejected by the current state of a
// request, an item or a medication's stock.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError reports malformed input, e.g., mismatched item/quantity lists.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
