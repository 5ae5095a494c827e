package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the curation capability.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidReference marks a reference that does not name an existing item.
	ErrInvalidReference = errors.New("invalid content reference")
	// ErrNotFound is returned when a content item or stored option does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable is returned when a backing store cannot answer.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrRevisionConflict is returned when a conditional save lost a race.
	ErrRevisionConflict = errors.New("revision conflict")
)
