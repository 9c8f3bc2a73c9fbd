package domain

import "errors"

// ErrFetchFailed signals that a carrier returned a malformed or empty
// response. The refresh job logs and skips on this; the stored snapshot stays
// untouched until the next run.
var ErrFetchFailed = errors.New("carrier fetch failed")

// CarrierError carries a user-facing, carrier-localized diagnostic. PostNL is
// the one carrier that explicitly reports "no data for this code", and that
// message must reach the user verbatim when adding a package.
type CarrierError struct {
	Message string
}

func (e *CarrierError) Error() string {
	return e.Message
}

// NewCarrierError wraps a localized diagnostic message.
func NewCarrierError(message string) *CarrierError {
	return &CarrierError{Message: message}
}
