package vendorapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Result is the decoded form of a response envelope: Ok(data) or Err(message).
type Result[T any] struct {
	ok      bool
	data    T
	message string
	status  int
}

func Ok[T any](data T) Result[T] { return Result[T]{ok: true, data: data} }

func Err[T any](message string) Result[T] { return Result[T]{message: message} }

func (r Result[T]) IsOk() bool      { return r.ok }
func (r Result[T]) Data() T         { return r.data }
func (r Result[T]) Message() string { return r.message }

// Unwrap turns an Err result into an *Error tagged with op.
func (r Result[T]) Unwrap(op string) (T, error) {
	if !r.ok {
		var zero T
		return zero, &Error{Op: op, StatusCode: r.status, Message: r.message}
	}
	return r.data, nil
}

// decodeEnvelope maps a response body to a Result. success decides the
// outcome; the HTTP status only feeds the fallback message.
func decodeEnvelope[T any](status int, body []byte) (Result[T], error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result[T]{}, err
	}
	if !env.Success {
		msg := strings.TrimSpace(env.Error)
		if msg == "" {
			msg = strings.TrimSpace(env.Message)
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed (status %d)", status)
		}
		r := Err[T](msg)
		r.status = status
		return r, nil
	}

	var data T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Result[T]{}, fmt.Errorf("decode data: %w", err)
		}
	}
	r := Ok(data)
	r.message = env.Message
	r.status = status
	return r, nil
}

// Error is returned for every failed vendor API call: transport failures and
// non-success envelopes alike.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown inline to the vendor.
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// IsError reports whether err carries a vendor API *Error.
func IsError(err error) bool {
	var target *Error
	return errors.As(err, &target)
}
