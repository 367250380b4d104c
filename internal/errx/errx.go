// Package errx wraps sentinel errors with their causes so callers can
// match on the sentinel with errors.Is while keeping the cause text.
package errx

import "fmt"

// Wrap returns an error matching both sentinel and cause.
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// With annotates sentinel with formatted detail.
func With(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w"+format, append([]any{sentinel}, args...)...)
}
