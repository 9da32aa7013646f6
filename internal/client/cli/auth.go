package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a login and password and creates the account. The
// user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, login, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, login, password); err != nil {
		a.userName = ""
		return err
	}
	a.userName = login
	fmt.Fprintf(a.out, "Logged in as %s\n", login)
	return nil
}

// expireSession drops a token the server no longer accepts.
func (a *App) expireSession() {
	a.authService.Logout()
	a.userName = ""
}

func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
