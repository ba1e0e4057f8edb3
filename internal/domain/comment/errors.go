package comment

import "errors"

var (
	// ErrCommentNotFound indicates the comment doesn't exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotPermitted indicates the actor may not perform the operation.
	ErrNotPermitted = errors.New("operation not permitted")
	// ErrPositionConflict indicates the thread-position race was lost after
	// exhausting retries.
	ErrPositionConflict = errors.New("thread position conflict")
	// ErrInvalidInput indicates invalid input for comment operations.
	ErrInvalidInput = errors.New("invalid comment input")
)
