package entity

import "errors"

// Domain errors for the entity package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, entity.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when an entity id is not in the registry.
	ErrNotFound = errors.New("entity: not found")

	// ErrInvalidID is returned when an id is not "<domain>.<object_id>".
	ErrInvalidID = errors.New("entity: invalid id")
)
