package siteport

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EDISCOVERY means the sitemap was unreachable or malformed.
	// It is the only per-run fatal error.
	EDISCOVERY = "discovery"

	// Per-URL failures. They are recorded in the ledger, never fatal.
	ENAVIGATION = "navigation"
	ETIMEOUT    = "ready_timeout"
	ENOCONTENT  = "content_not_found"
	EEMPTY      = "extraction_empty"

	// ECAPTURE is a secondary failure while saving diagnostics.
	// It is logged and never escalated.
	ECAPTURE = "diagnostic_capture"

	// ECORRUPT means persisted ledger state could not be decoded.
	ECORRUPT = "ledger_corrupt"

	// EPARTIAL means a run completed but at least one URL failed.
	EPARTIAL = "partial_failure"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("siteport error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the error wrapped with %w in Errorf, if any.
func (e *Error) Unwrap() error {
	return errors.Unwrap(e.err)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. Errors passed with %w remain reachable via errors.Is.
func Errorf(code string, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: err.Error(),
		err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their own text so that failure reasons
// recorded in the ledger are never empty.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsExtractionFailed reports whether err is one of the per-URL acquisition
// failures: navigation, readiness timeout, missing content or empty content.
func IsExtractionFailed(err error) bool {
	switch ErrorCode(err) {
	case ENAVIGATION, ETIMEOUT, ENOCONTENT, EEMPTY:
		return true
	}
	return false
}
