package sim

import "errors"

// ErrUnknownCountry reports an epicenter with no panel record. This is a
// per-request, user-correctable input error, never silently defaulted.
var ErrUnknownCountry = errors.New("unknown country")

// ErrInvalidRequest reports a structurally malformed request (e.g. empty
// epicenter code).
var ErrInvalidRequest = errors.New("invalid request")
