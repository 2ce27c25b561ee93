package core

import "fmt"

// Unit is the response type for commands that return no payload.
type Unit struct{}

// CommandError is an error that carries the HTTP status code the
// delivery layer should respond with. Handlers use 400 for validation
// failures, 404 for missing aggregates, and 409 for state conflicts so
// the host console can tell "bad input" apart from "this already
// happened, refresh your state".
type CommandError struct {
	Payload    interface{}
	StatusCode int
	Reason     *string
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (e CommandError) Error() string {
	reason := ""
	if e.Reason != nil {
		reason = *e.Reason
	}

	return fmt.Sprintf("{Payload:%+v StatusCode:%d Reason:%s}", e.Payload, e.StatusCode, reason)
}

// IsConflict reports whether err is a state-conflict CommandError.
// Callers seeing a conflict should re-fetch state instead of retrying.
func IsConflict(err error) bool {
	commandErr, ok := err.(CommandError)
	return ok && commandErr.StatusCode == 409
}
