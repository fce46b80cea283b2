package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation Errors
	ErrEmptyText             = errors.New("text cannot be empty")
	ErrTextTooShort          = errors.New("text must be at least 3 characters")
	ErrTextTooLong           = errors.New("text exceeds 120 characters")
	ErrInvalidPriority       = errors.New("invalid priority value")
	ErrInvalidDueDate        = errors.New("due date must use the YYYY-MM-DD format")
	ErrDueDateInPast         = errors.New("due date cannot be in the past")
	ErrDueDateBeforeCreation = errors.New("due date cannot be before the creation date")
	ErrInvalidPage           = errors.New("invalid page request")
	ErrInvalidPageSize       = fmt.Errorf("%w: bad page size", ErrInvalidPage)

	// Query errors
	ErrInvalidSort = errors.New("invalid sort parameter")

	// Business logic errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrVersionMismatch   = errors.New("version mismatch - concurrent update detected")
)

// IsValidationError reports whether err stems from bad caller input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyText, ErrTextTooShort, ErrTextTooLong, ErrInvalidPriority,
		ErrInvalidDueDate, ErrDueDateInPast, ErrDueDateBeforeCreation,
		ErrInvalidPage, ErrInvalidSort,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
