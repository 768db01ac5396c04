package errors

import "fmt"

// ErrorType classifies the failures a browser-driven deletion run can hit
type ErrorType string

const (
	// ErrorTypeLocate means a selector strategy did not match or timed out.
	// Recovered locally: the caller falls through to its next strategy.
	ErrorTypeLocate ErrorType = "locate"
	// ErrorTypeNavigation means a page load or page-state probe failed or timed out
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeSession means the browser session could not be established
	ErrorTypeSession ErrorType = "session"
	// ErrorTypePrecondition means a required input (session file, username)
	// was missing before the run started
	ErrorTypePrecondition ErrorType = "precondition"
	// ErrorTypeInterrupted means the operator requested a stop
	ErrorTypeInterrupted ErrorType = "interrupted"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed error carrying the failure class alongside the cause
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates a typed error around an underlying cause
func Wrap(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// IsFatal reports whether an error type must abort the run. Locate and
// navigation failures are handled by fallback strategies and never end it.
func IsFatal(t ErrorType) bool {
	switch t {
	case ErrorTypeSession, ErrorTypePrecondition:
		return true
	case ErrorTypeLocate, ErrorTypeNavigation, ErrorTypeInterrupted:
		return false
	default:
		return false
	}
}
