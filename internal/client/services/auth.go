// Package services contains the application services behind the ProtoDrive
// CLI. They validate user input, call the API client and translate local
// resources (files, passwords) into client calls.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/protodrive/internal/client/client"
	"github.com/dmitrijs2005/protodrive/internal/common"
)

var ErrEmptyCredentials = errors.New("login and password must not be empty")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server.
//   - Login: authenticate and make the returned token the active session.
//   - Logout: drop the active session.
//   - Authenticated: whether a session is active.
//   - Ping: check server liveness.
//
// Passwords are passed as byte slices and wiped once the call returns.
type AuthService interface {
	Register(ctx context.Context, login string, password []byte) error
	Login(ctx context.Context, login string, password []byte) error
	Logout()
	Authenticated() bool
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) Register(ctx context.Context, login string, password []byte) error {
	defer common.WipeByteArray(password)

	login = strings.TrimSpace(login)
	if login == "" || len(password) == 0 {
		return ErrEmptyCredentials
	}
	return a.client.Register(ctx, login, string(password))
}

func (a *authService) Login(ctx context.Context, login string, password []byte) error {
	defer common.WipeByteArray(password)

	login = strings.TrimSpace(login)
	if login == "" || len(password) == 0 {
		return ErrEmptyCredentials
	}
	_, err := a.client.Login(ctx, login, string(password))
	return err
}

func (a *authService) Logout() {
	a.client.Logout()
}

func (a *authService) Authenticated() bool {
	return a.client.Authenticated()
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
