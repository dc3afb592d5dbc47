package scheduler

import "errors"

var (
	// ErrInvariantViolation signals that a room ended up double-booked. It indicates a
	// broken availability check or booking step and must never be treated as a normal
	// "could not place" outcome.
	ErrInvariantViolation = errors.New("scheduler invariant violated")
	// ErrInvalidRoom is returned when a catalog entry has no name or a non-positive capacity.
	ErrInvalidRoom = errors.New("invalid room")
	// ErrDuplicateRoom is returned when two catalog entries share a name.
	ErrDuplicateRoom = errors.New("duplicate room name")
	// ErrNilCatalog is returned when a run is started without a catalog.
	ErrNilCatalog = errors.New("room catalog is required")
)
