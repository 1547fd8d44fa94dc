// Package apperrors defines the sentinel errors shared across the service.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrStatementNotFound indicates that a cached statement with the given ID does not exist.
	ErrStatementNotFound = errors.New("statement not found")
)

// Parse errors represent fatal failures while normalizing a statement
// document. Anything less severe is logged per record and the record dropped.
var (
	// ErrInvalidDocument indicates the uploaded document does not carry a
	// recognizable statement envelope.
	ErrInvalidDocument = errors.New("invalid statement document")

	// ErrMalformedDate indicates a statement timestamp is empty, malformed or
	// an impossible calendar date. Fatal only for the statement-level as-of
	// date; per-record occurrences drop the record.
	ErrMalformedDate = errors.New("malformed statement date")
)

// Computation errors represent failures of the cost-basis engine.
var (
	// ErrInsufficientHistory indicates a sale could not be covered by prior
	// acquisitions. The ledger is economically inconsistent and the whole
	// computation is aborted; no partial result is returned.
	ErrInsufficientHistory = errors.New("insufficient purchase history to cover sale")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToDigestStatement    = errors.New("failed to digest statement")
	ErrFailedToRetrieveStatements = errors.New("failed to retrieve statements")
	ErrFailedToRetrieveStatement  = errors.New("failed to retrieve statement")
	ErrFailedToDeleteStatement    = errors.New("failed to delete statement")
	ErrFailedToCalculateGains     = errors.New("failed to calculate gains")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
