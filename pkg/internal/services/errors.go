package services

import "fmt"

// ValidationError marks input the user has to correct before retrying.
// It is raised before any store call is made.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...any) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StoreError wraps a failure talking to the message store. The operation is
// never retried automatically; resubmission is left to the user.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}

// AssetResolutionError wraps a failed avatar lookup against the asset store.
// It is recovered locally with a placeholder and never blocks the caller.
type AssetResolutionError struct {
	Ref string
	Err error
}

func (e AssetResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve asset %s: %v", e.Ref, e.Err)
}

func (e AssetResolutionError) Unwrap() error {
	return e.Err
}
