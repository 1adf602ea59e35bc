package errors

import stderrors "errors"

// Error is the engine error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context (card ids, amounts)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple engine error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates an engine error carrying metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates an engine error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the code from an error chain, or CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnknownEffect     = New(CodeUnknownEffect, "unknown effect type")
	ErrInteractiveEffect = New(CodeInteractiveEffect, "effect requires player interaction")
	ErrNoActiveRun       = New(CodeNoActiveRun, "no active run")
	ErrNoRulesCard       = New(CodeNoRulesCard, "tried to process a run without a rules card")
	ErrRunOver           = New(CodeRunOver, "run is over")
	ErrCardNotFound      = New(CodeCardNotFound, "card not found")
	ErrPlayLimitReached  = New(CodePlayLimitReached, "play limit reached")
	ErrCannotActivate    = New(CodeCannotActivate, "ability cannot be activated")
	ErrAwaitingChoice    = New(CodeAwaitingChoice, "a card choice is pending")
	ErrNoPendingChoice   = New(CodeNoPendingChoice, "no card choice is pending")
	ErrInvalidChoice     = New(CodeInvalidChoice, "choice was not offered")
	ErrUnknownCard       = New(CodeUnknownCard, "unknown card")
	ErrDeckNotFound      = New(CodeDeckNotFound, "deck not found")
	ErrDeckInvalid       = New(CodeDeckInvalid, "deck is not valid")
	ErrDeckLocked        = New(CodeDeckLocked, "deck is not editable")
)
