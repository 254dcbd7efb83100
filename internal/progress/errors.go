package progress

import "fmt"

// ErrPersistence indicates the persistence collaborator failed after all
// retries. The in-memory record has been rolled back: the update did not
// take effect.
type ErrPersistence struct {
	UserID string
	Err    error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persist progress for user %q: %v", e.UserID, e.Err)
}

func (e *ErrPersistence) Unwrap() error { return e.Err }
