package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across commands.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvalidState       ErrorCode = "invalid_state"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// FieldError is one field-scoped validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Fields  []FieldError
}

// Error renders as "op: message (code)", dropping whichever parts are empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := strings.TrimSpace(e.Op)
	if msg := strings.TrimSpace(e.Message); msg != "" {
		if head != "" {
			head += ": "
		}
		head += msg
	}
	if head == "" {
		return string(e.Code)
	}
	return head + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// ValidationFailed builds a validation error carrying every field message collected.
func ValidationFailed(op string, fields []FieldError) error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return &Error{
		Code:    CodeValidation,
		Op:      strings.TrimSpace(op),
		Message: strings.Join(parts, "; "),
		Fields:  append([]FieldError(nil), fields...),
	}
}

// InvalidState builds the error returned when an aggregate guard rejects a transition.
func InvalidState(op, message string) error {
	return NewError(CodeInvalidState, op, message, nil)
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func asError(err error) *Error {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr
	}
	return nil
}

// IsCode reports whether err, or anything it wraps, carries code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code && code != ""
}

// CodeOf returns the code of the first aggregate error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// FieldErrors returns the field messages attached to a validation error.
func FieldErrors(err error) []FieldError {
	if e := asError(err); e != nil {
		return e.Fields
	}
	return nil
}
