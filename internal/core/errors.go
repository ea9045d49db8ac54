package core

import "errors"

// Domain errors surfaced to adapters. Services wrap these with context via
// fmt.Errorf("...: %w", Err...), so callers match with errors.Is.
var (
	// ErrNotFound covers any entity, bill, or shopkeeper lookup that finds
	// nothing within the caller's tenant scope.
	ErrNotFound = errors.New("not found")

	// ErrBillDeleted is returned when an edit or delete targets a bill that
	// is already soft-deleted.
	ErrBillDeleted = errors.New("bill is deleted")

	// ErrDuplicatePhone and ErrDuplicateWhatsApp distinguish which wholesaler
	// contact field collided with an existing record.
	ErrDuplicatePhone    = errors.New("phone number already registered")
	ErrDuplicateWhatsApp = errors.New("whatsapp number already registered")

	// ErrEntityDeleted is returned when a bill or payment references a
	// soft-deleted wholesaler.
	ErrEntityDeleted = errors.New("wholesaler is deleted")

	// ErrInvalidInput is the base for validation failures rejected before the
	// ledger protocol runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when registering an already-taken email.
	ErrDuplicateEmail = errors.New("email already registered")
)
