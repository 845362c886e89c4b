package listing

import (
	"errors"
	"fmt"
)

// SubmitMessage is the single user-facing message for a rejected draft.
const SubmitMessage = "Please fill in all required fields and ensure your phone number is valid."

var (
	// ErrValidation indicates the draft is not submittable.
	ErrValidation = errors.New("listing draft is not submittable")
	// ErrPersistence indicates the backing store failed on create or fetch.
	ErrPersistence = errors.New("listing store unavailable")
	// ErrDecode indicates a stored record could not be decoded.
	ErrDecode = errors.New("malformed listing record")
	// ErrNotFound indicates the listing doesn't exist.
	ErrNotFound = errors.New("listing not found")
)

// DecodeError describes one record skipped during a read.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding listing %s: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
