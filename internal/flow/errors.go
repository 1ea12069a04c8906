package flow

import (
	"errors"
	"fmt"
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

// FetchError covers transport failures, non-success envelopes and lookups of
// bookings that are no longer in the store.
type FetchError struct {
	Op  string
	Msg string
	Err error
}

func (e FetchError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s failed", e.Op)
	}
}

func (e FetchError) Unwrap() error { return e.Err }

var (
	ErrRequestInFlight = errors.New("a request for this action is already in progress")
	ErrSessionClosed   = errors.New("this dialog has been closed")
)

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsFetch(err error) bool {
	var target FetchError
	return errors.As(err, &target)
}

// Fetch wraps a backend error. The user-facing message is the API's own
// message when it has one.
func Fetch(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return err
	}
	fe := FetchError{Op: op, Err: err}
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		fe.Msg = msg.UserMessage()
	}
	return fe
}
