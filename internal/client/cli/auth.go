package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/authrpc"
	"github.com/dmitrijs2005/userauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errAborted = errors.New("aborted")

// Register prompts for a user name, email, password and optional description
// and creates the account. New accounts start inactive.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	profile, err := a.client.Register(ctx, &authrpc.CreateUserRequest{
		UserName:    userName,
		Email:       email,
		Password:    string(password),
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d)\n", profile.Email, profile.ID)
	return nil
}

// Login prompts for credentials and keeps the issued token in the client.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.email = strings.ToLower(strings.TrimSpace(email))
	fmt.Fprintf(a.out, "Login successful, token expires at %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// Logout revokes the current token on the server.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.client.Logout(ctx)
	if !a.client.IsLoggedIn() {
		a.email = ""
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}
