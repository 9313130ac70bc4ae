package oauthmodel

import "errors"

// Builder validation error kinds. Every validation failure raised by a
// request builder wraps exactly one of these, so callers can classify with
// errors.Is without matching message text.
var (
	// ErrNilArgument indicates a required reference was not provided,
	// such as a nil provider configuration.
	ErrNilArgument = errors.New("nil argument")

	// ErrInvalidArgument indicates a provided value is structurally wrong:
	// an empty client ID, an empty string where empty is not the same as
	// absent, or an additional parameter using a reserved name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates the fields are individually valid but their
	// combination is not, such as an authorization-code grant with no
	// redirect URI. Only Build reports this kind.
	ErrInvalidState = errors.New("invalid state")
)
