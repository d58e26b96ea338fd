package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrApplicationLocked is returned when a save or review targets an
	// application that has already been approved. Approved is terminal.
	ErrApplicationLocked = errors.New("application is approved and locked")

	// ErrReviewCommentRequired is returned when a rejection carries no
	// comment.
	ErrReviewCommentRequired = errors.New("rejecting an application requires a review comment")

	// ErrBatchHasApplications guards batch deletion.
	ErrBatchHasApplications = errors.New("batch has applications and cannot be deleted")

	// ErrReferencedByMaterials guards category/item deletion.
	ErrReferencedByMaterials = errors.New("referenced by application materials and cannot be deleted")
)

// ValidationError rejects a malformed submission before any mutation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
