// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrSlotConflict signals that a booking lost
// the race for a slot whose interval is already reserved.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state, such as a lost optimistic version
// check on a slot row. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSlotConflict is returned by the booking write path when an
// existing active booking on the same slot overlaps the requested
// interval. Exactly one of two concurrent writers can succeed; the
// loser receives this error and an HTTP 409.
var ErrSlotConflict = errors.New("slot already booked for an overlapping interval")
