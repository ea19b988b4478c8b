package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/validation"
)

// errBadCredentials stands in for the 401 of a failed sign-in, which
// describeErr would otherwise report as an expired session.
var errBadCredentials = errors.New("invalid username or password")

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// describeErr turns an error into the line shown in the status bar.
func describeErr(err error) string {
	var se *api.StatusError
	var fe validation.FieldErrors
	switch {
	case errors.Is(err, session.ErrNoToken):
		return "Please log in first"
	case api.IsUnauthorized(err):
		return "Session expired, please log in again"
	case errors.As(err, &fe):
		return fe.Error()
	case errors.As(err, &se):
		return fmt.Sprintf("%s (%d)", se.Message(), se.Code)
	default:
		return err.Error()
	}
}
