package catalog

import "errors"

// Error kinds. Every error returned by the services matches exactly one of
// these with errors.Is; the concrete message is operation specific.
var (
	ErrUnauthorized  = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("a tag with this name already exists")
	ErrTagInUse      = errors.New("this tag is used by one or more games and cannot be deleted")
	ErrInvalidInput  = errors.New("invalid input")
)

// Error pairs an error kind with a message for the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func denied(action string) error {
	return &Error{Kind: ErrUnauthorized, Message: "not authorized to " + action}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func invalid(message string) error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}
