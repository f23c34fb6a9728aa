package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all store implementations. Entity-specific
// variants wrap the generic ones so callers can match either level with
// errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a
	// uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	// before being stored. The wrapped error carries the detail.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update matches no row or
	// violates a constraint.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed is returned when a delete matches no row or the
	// entity is still referenced.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed is returned when a transaction cannot commit.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)

	// Material lookups are keyed by document, so these mean "nothing
	// generated yet for that document".
	ErrFlashcardNotFound = fmt.Errorf("%w: flashcard", ErrNotFound)
	ErrQuizNotFound      = fmt.Errorf("%w: quiz", ErrNotFound)
	ErrNotesNotFound     = fmt.Errorf("%w: study notes", ErrNotFound)
	ErrSummaryNotFound   = fmt.Errorf("%w: summary", ErrNotFound)

	// ErrEmailExists is returned when registering or changing to an
	// email already held by another account.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)
