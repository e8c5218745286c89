package bcgt

import "fmt"

// ValidationError reports a malformed or incomplete operation request. The
// store is untouched when one is returned; the operator may correct and
// re-issue the request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a symbol has no open lots in the store.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no open lots for symbol %q", e.Symbol)
}
