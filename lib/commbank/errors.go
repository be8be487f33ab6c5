package commbank

import (
	"errors"
	"fmt"
)

// ErrCommBank is the root of every error this package produces itself. Network
// and transport errors are not wrapped in it.
var ErrCommBank = errors.New("commbank")

// ErrLoginFailed is returned when the credentials were rejected or anything
// went wrong during the login sequence.
var ErrLoginFailed = fmt.Errorf("%w: login failed", ErrCommBank)

// ErrBadResponse is returned when a response could not be decoded into the
// shape that was expected of it.
var ErrBadResponse = fmt.Errorf("%w: bad response", ErrCommBank)

func loginFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrLoginFailed, cause)
}

func badResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrBadResponse, fmt.Errorf(format, args...))
}
