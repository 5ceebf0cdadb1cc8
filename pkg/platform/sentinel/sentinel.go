package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, the framework adapter and
// the archive client return these (optionally wrapped); services translate them
// into domain errors.
//
//   - ErrNotFound: no session, marker or preference under the key
//   - ErrConflict: a write collided with an existing session token
//   - ErrInvalidState: the registration machine cannot accept the request in its current phase
//   - ErrUnavailable: the framework service or a remote endpoint cannot be reached
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
