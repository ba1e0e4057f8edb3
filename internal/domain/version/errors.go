package version

import "errors"

var (
	// ErrVersionNotFound indicates the version doesn't exist.
	ErrVersionNotFound = errors.New("version not found")
	// ErrVersionFinal indicates a mutation was attempted on a version marked final.
	ErrVersionFinal = errors.New("version is final and immutable")
	// ErrFinalExists indicates the contract already has a final version.
	ErrFinalExists = errors.New("contract already has a final version")
	// ErrReasonRequired indicates a rejection without the mandatory reason.
	ErrReasonRequired = errors.New("rejection reason is required")
	// ErrNumberingConflict indicates the version numbering race was lost
	// after exhausting retries.
	ErrNumberingConflict = errors.New("version numbering conflict")
	// ErrInvalidInput indicates invalid input for version operations.
	ErrInvalidInput = errors.New("invalid version input")
)
