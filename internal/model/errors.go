package model

import "errors"

var (
	// ErrInvalidArgument marks well-formed input that violates a rule
	// (non-positive count, reversed range, empty date list, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse marks malformed date, time or rule strings.
	ErrParse = errors.New("parse error")
)

// ParseError reports a field value that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Field + " " + quote(e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func quote(s string) string {
	return `"` + s + `"`
}
