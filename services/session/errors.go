package session

import "errors"

// ErrInvalidToken marks a session token that is missing, malformed, expired,
// or no longer the active token for its user.
var ErrInvalidToken = errors.New("invalid or expired session token")
