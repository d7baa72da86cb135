package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("sign in required")
	ErrForbidden            = errors.New("not allowed for this role")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrNotFound             = errors.New("not found")
)

// Messages returned by ValidateCheckout.
const (
	ErrMsgCartEmpty    = "cart is empty"
	ErrMsgTableMissing = "select a table first"
)

// ValidationError is a checkout precondition the caller failed to meet.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// IsValidation tells business-rule failures apart from infrastructure ones.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// PersistenceFailure wraps a failed backend write.
type PersistenceFailure struct {
	Op  string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }

func IsPersistenceFailure(err error) bool {
	var p *PersistenceFailure
	return errors.As(err, &p)
}
