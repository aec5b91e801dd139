package remote

import (
	"errors"
	"fmt"
)

// Code classifies every failure mode the system distinguishes.
//
// The set is closed: TIMEOUT, FETCH_FAILED, HTTP_<status>, BAD_JSON,
// NOT_FOUND, UNKNOWN. HTTP codes are produced by HTTPCode.
type Code string

const (
	// CodeTimeout means the request exceeded its deadline and was aborted.
	CodeTimeout Code = "TIMEOUT"

	// CodeFetchFailed means a transport-level failure (DNS, connection
	// reset) before any HTTP status was received.
	CodeFetchFailed Code = "FETCH_FAILED"

	// CodeBadJSON means a 2xx response carried an unparseable body.
	CodeBadJSON Code = "BAD_JSON"

	// CodeNotFound means a local operation targeted an absent id.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnknown classifies anything the taxonomy cannot place.
	CodeUnknown Code = "UNKNOWN"
)

// HTTPCode returns the code for a non-2xx HTTP status, e.g. HTTP_404.
func HTTPCode(status int) Code {
	return Code(fmt.Sprintf("HTTP_%d", status))
}

// Error is the normalized failure shape every gateway operation produces.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the taxonomy code from an error, or CodeUnknown for
// anything that is not a normalized *Error.
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeUnknown
}
