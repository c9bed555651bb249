package rotate

import (
	"fmt"
	"time"
)

// LookupError means the current key or the identity's key set could not be
// determined. Nothing has been changed when this is returned.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unable to determine the current access key, not safe to proceed: %v", e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// DeletionError means a stale key could not be deleted. No new key has been
// created when this is returned.
type DeletionError struct {
	KeyID string
	Err   error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to delete stale access key %q: %v", e.KeyID, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// CreationError means the credential service refused to create a new key. The
// old key is still active and still configured locally.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("unable to create new access key, nothing changed: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// DeactivationError means the old key could not be marked inactive. This is not
// fatal. The old key is left active and can be deactivated by hand.
type DeactivationError struct {
	KeyID string
	Err   error
}

func (e *DeactivationError) Error() string {
	return fmt.Sprintf("failed to deactivate old access key %q, it is still active: %v", e.KeyID, e.Err)
}

func (e *DeactivationError) Unwrap() error { return e.Err }

// ConfigWriteError means the new key exists and is active at the credential
// service, but it could not be written to the local configuration. The new key
// is orphaned and needs manual attention.
type ConfigWriteError struct {
	KeyID string
	Err   error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("new access key %q was created but could not be written to the local configuration; it must be configured or deleted by hand: %v", e.KeyID, e.Err)
}

func (e *ConfigWriteError) Unwrap() error { return e.Err }

// TimeoutError means a single call took longer than the configured timeout. It
// is always found wrapped inside one of the step errors above.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %v", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
