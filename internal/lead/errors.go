package lead

import "errors"

var (
	// ErrNotFound indicates the lead identifier is unknown to the store.
	ErrNotFound = errors.New("lead not found")

	// ErrAlreadyExists indicates a lead with the same identifier or email
	// already exists.
	ErrAlreadyExists = errors.New("lead already exists")

	// ErrPersistenceFailure indicates a storage-layer fault during load,
	// append, or commit. The operation changed nothing; retry policy belongs
	// to the caller.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrUnknownState indicates a symbol outside the closed state enumeration.
	ErrUnknownState = errors.New("unknown lead state")

	// ErrUnknownEvent indicates a symbol outside the closed event enumeration.
	ErrUnknownEvent = errors.New("unknown lead event")

	// ErrHistoryMismatch indicates replaying a lead's transition history did
	// not reproduce its stored current state.
	ErrHistoryMismatch = errors.New("history does not replay to current state")
)
