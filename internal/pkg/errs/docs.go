// Package errs provides the standardized error types of the application.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrValueIsRequired) for errors.Is checks
//   - a struct type carrying the details
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Domain packages declare their own sentinels for business rule violations
// (order.ErrInvalidTransition, settlement.ErrSettlementLocked, ...); errs covers
// the cross-cutting cases: missing or invalid input, unknown objects, lost
// optimistic-concurrency races and denied authorization.
package errs
