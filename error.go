package sitefind

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EFORMAT reports a company name that formats to an empty query.
	EFORMAT = "format"
	// EFETCH reports a failure to obtain a results page.
	EFETCH = "fetch"
	// EPARSE reports a results page that could not be parsed at all.
	EPARSE = "parse"
	// EEXTRACT reports a single selector that failed during extraction.
	EEXTRACT = "extract"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
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
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsRetryable reports whether err should consume an attempt and let the
// resolver try again. Only fetch and parse failures qualify.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case EFETCH, EPARSE:
		return true
	}
	return false
}
