package util

import (
	"errors"
	"strings"
)

// ErrPublic is an error whose message is safe to show to the end user, as
// opposed to internal errors which should only ever reach the logs.
type ErrPublic string

func (e ErrPublic) Error() string {
	return string(e)
}

// ConcatErrors returns a single error holding the messages of all non-nil
// errors in the given slice, or nil if there is none.
func ConcatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err.Error())
		}
	}

	if len(filtered) == 0 {
		return nil
	}

	return errors.New(strings.Join(filtered, "; "))
}
