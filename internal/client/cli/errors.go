package cli

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

var (
	errNotLoggedIn    = errors.New("you are not logged in, use 'login' or 'register'")
	errTaskArgMissing = errors.New("usage: <command> <row number or task id>")
)

// handleAuthError drops the session when the server no longer accepts the
// token and marks the app offline when the server cannot be reached.
func (a *App) handleAuthError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		a.endSession()
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
	}
	return err
}

// describeError turns a command error into text for the terminal.
func describeError(err error) string {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		return strings.TrimRight(verr.Message+"\n"+verr.Details(), "\n")
	case errors.Is(err, api.ErrUnauthorized):
		return "Your session has expired, please log in again."
	case errors.Is(err, api.ErrForbidden):
		return "Task not found."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable, try again later."
	case errors.Is(err, api.ErrNotLoggedIn):
		return errNotLoggedIn.Error()
	default:
		return "Error: " + err.Error()
	}
}
