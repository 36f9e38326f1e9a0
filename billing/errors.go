// Package billing is the pure computation core: subscription coverage,
// session cost accrual, invoice construction, payment allocation and balance
// derivation. It performs no I/O; the current time is always supplied by the
// caller, so every function is deterministic given its inputs. Persistence
// and per-customer serialization live in the workflow package.
package billing

import "errors"

var (
	// ErrInvalidState marks an operation attempted against an entity whose
	// state disallows it (closing a closed session, cancelling a paid invoice).
	ErrInvalidState = errors.New("invalid state")

	// ErrResourceUnavailable is returned when starting a session on an
	// occupied resource.
	ErrResourceUnavailable = errors.New("resource is already occupied")

	// ErrAmountExceedsBalance is returned for a payment larger than the
	// invoice's outstanding balance beyond the rounding tolerance.
	ErrAmountExceedsBalance = errors.New("payment amount exceeds remaining balance")
)
