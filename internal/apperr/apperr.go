package apperr

import "errors"

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation_error"
	KindUnauthorized Kind = "unauthorized"
	KindInvalidState Kind = "invalid_state"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is a classified domain error. Sentinels are compared by identity,
// so domain packages declare them once in errors.go.
type Error struct {
	Kind      Kind
	Message   string
	Fields    []FieldIssue
	// Duplicate marks a Conflict caused by the request itself, such as a
	// period that was already generated; it is answered as a bad request.
	Duplicate bool
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func InvalidState(message string) *Error { return New(KindInvalidState, message) }

func Duplicate(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Duplicate: true}
}

func Validation(field, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "payload validation failed",
		Fields:  []FieldIssue{{Field: field, Reason: reason}},
	}
}

// KindOf returns the kind of the first classified error in the chain, or "".
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

func Fields(err error) []FieldIssue {
	var target *Error
	if errors.As(err, &target) {
		return target.Fields
	}
	return nil
}
