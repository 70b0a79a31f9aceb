package errors

import "fmt"

/*
* Error codes convey the fetch/cache taxonomy internally and to clients.
* They should be combined with the appropriate HTTP status code, but are
* not intended to supercede correct HTTP responses.
*
* NotFound is terminal: the origin confirmed the identifier does not
* exist. It is never retried and never cached.
*
* Transient covers network failures, origin rate-limiting and persistent
* store outages observed mid-request. It is never cached and is safe for
* the caller to retry.
*
* Configuration means the persistent store was misconfigured or
* unreachable at startup. It is reported once by the availability guard
* and must never surface as a per-request failure.
 */

const (
	// HTTP 404 Not Found.
	NotFound ErrCode = 1

	// HTTP 503 Service Unavailable.
	Transient ErrCode = 2

	// Startup only, never served.
	Configuration ErrCode = 3
)

// ErrCode is one of the taxonomy constants above
type ErrCode uint8

// RecordError implements the error interface.
type RecordError struct {
	Function     string  `json:"-"`
	ErrorCode    ErrCode `json:"errorCode"`
	ErrorMessage string  `json:"errorDetail"`
	cause        error
}

func (e *RecordError) Error() string {
	return e.ErrorMessage
}

// Unwrap exposes the underlying transport or driver error, if any
func (e *RecordError) Unwrap() error {
	return e.cause
}

// New creates a taxonomy error without an underlying cause
func New(function string, errCode ErrCode, errMessage string) error {
	return &RecordError{
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: errMessage,
	}
}

// Wrap creates a taxonomy error around an underlying cause
func Wrap(function string, errCode ErrCode, err error) error {
	return &RecordError{
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: fmt.Sprintf("%s: %v", function, err),
		cause:        err,
	}
}

// IsNotFound returns true if err carries the NotFound code
func IsNotFound(err error) bool {
	return codeOf(err) == NotFound
}

// IsTransient returns true if err carries the Transient code
func IsTransient(err error) bool {
	return codeOf(err) == Transient
}

// IsConfiguration returns true if err carries the Configuration code
func IsConfiguration(err error) bool {
	return codeOf(err) == Configuration
}

func codeOf(err error) ErrCode {
	for err != nil {
		if re, ok := err.(*RecordError); ok {
			return re.ErrorCode
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}
