package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates that registration or login payload failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates that username or email is already taken
	ErrConflict = errors.New("user already exists")

	// ErrUserNotFound indicates that no identity matches the login identifier
	ErrUserNotFound = errors.New("user does not exist")

	// ErrPasswordMismatch indicates that the identity exists but the password is wrong
	ErrPasswordMismatch = errors.New("password mismatch")

	// ErrTokenMalformed covers missing headers, bad structure and bad signatures
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired indicates a correctly signed token past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked indicates a token presented after logout
	ErrTokenRevoked = errors.New("token revoked")

	// ErrAccountNotFound indicates a valid token whose subject no longer exists
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive indicates a deactivated identity
	ErrAccountInactive = errors.New("account inactive")
)

// RejectError reports where authorization stopped and why
type RejectError struct {
	Err   error
	State State
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("authorization rejected (%s): %v", e.State, e.Err)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

func reject(state State, sentinel, cause error) *RejectError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &RejectError{State: state, Err: err}
}
