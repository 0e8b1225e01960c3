package errors

import (
	"errors"
	"fmt"
)

// Common errors shared by the client packages
var (
	// Token repository errors
	ErrTokenNotFound = errors.New("token not found")
	ErrInvalidKey    = errors.New("invalid token key")

	// Token store encryption errors
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrCorruptTokenFile  = errors.New("corrupt token file")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers only import this package
func New(text string) error {
	return errors.New(text)
}
