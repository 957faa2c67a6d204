package docusign

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *Error) by the client.
var (
	// ErrAccountNotFound means the target account id was not present in the
	// login_information account list. No Session is returned alongside it.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidArgument is returned before any request is issued when a
	// caller passes an unrecognized option.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedResponse means the API returned a shape that could not be
	// normalized, such as a tab without a label.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error describes a failed client operation.
type Error struct {
	// Op is the operation that failed, e.g. "ListFolders".
	Op string

	// Err is the underlying error, usually one of the sentinels above.
	Err error

	// Msg is optional detail.
	Msg string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op, format string, args ...any) error {
	return &Error{Op: op, Err: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func malformed(op, format string, args ...any) error {
	return &Error{Op: op, Err: ErrMalformedResponse, Msg: fmt.Sprintf(format, args...)}
}
