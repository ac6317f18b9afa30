package errors

import "fmt"

// Wrap adds context to an error at a package boundary. Returns nil if err is
// nil. The wrapped error preserves the chain so errors.Is() keeps working.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to an error at a package boundary.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
