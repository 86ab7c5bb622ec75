// Package errs provides the typed errors shared by the simulator packages.
//
// Every error type wraps one sentinel, so callers classify failures with
// errors.Is and read the details with errors.As:
//   - ValueIsRequiredError wraps ErrValueIsRequired
//   - ValueIsInvalidError wraps ErrValueIsInvalid
//   - ValueIsOutOfRangeError wraps ErrValueIsOutOfRange
//   - ObjectNotFoundError wraps ErrObjectNotFound
//
// The HTTP adapter and simctl map these sentinels to status and exit codes.
package errs
