package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for name, email, password and its confirmation and
// creates the account. On success the returned session becomes current.
// Password bytes are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	session, err := a.client.Register(ctx, name, email, string(password), string(confirmation))
	if err != nil {
		return err
	}

	a.startSession(session)
	fmt.Fprintf(a.out, "Registration successful! Logged in as %s\n", session.User.Email)
	return nil
}

// Login prompts for credentials and replaces the current session. The
// server revokes every earlier token of the user.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.startSession(session)
	fmt.Fprintf(a.out, "Login successful! Welcome back, %s!\n", session.User.Name)
	return nil
}

// Logout revokes the current token on the server and forgets the session.
// The local session is dropped even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	err := a.client.Logout(ctx, a.session)
	a.endSession()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out successfully!")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	user, err := a.client.Me(ctx, a.session)
	if err != nil {
		return a.handleAuthError(err)
	}

	fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *App) startSession(s *api.Session) {
	a.session = s
	a.lastList = nil
}

func (a *App) endSession() {
	a.session = nil
	a.lastList = nil
}
