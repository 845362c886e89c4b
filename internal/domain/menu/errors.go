package menu

import "errors"

var (
	// ErrUnknownLocation indicates the hall is not configured.
	ErrUnknownLocation = errors.New("unknown dining hall")
	// ErrUpstream indicates the menu API was unreachable or returned an error status.
	ErrUpstream = errors.New("menu api unavailable")
	// ErrDecode indicates the menu API response could not be decoded.
	ErrDecode = errors.New("malformed menu response")
)
