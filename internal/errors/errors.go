package errors

import (
	"errors"
	"fmt"
)

// Common error types for the OAuth2 client
var (
	// Transport errors
	ErrEndpointUnreachable = errors.New("token endpoint unreachable")
	ErrMalformedResponse   = errors.New("malformed token response")
	ErrUnexpectedStatus    = errors.New("unexpected response status")

	// Discovery errors
	ErrDiscoveryFailed = errors.New("provider discovery failed")
	ErrNoVerifier      = errors.New("configuration has no ID token verifier")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
