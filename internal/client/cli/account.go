package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:          %d\n", p.ID)
	fmt.Fprintf(a.out, "User name:   %s\n", p.UserName)
	fmt.Fprintf(a.out, "Email:       %s\n", p.Email)
	fmt.Fprintf(a.out, "Description: %s\n", p.Description)
	fmt.Fprintf(a.out, "Active:      %t\n", p.IsActive)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	email, err := a.client.VerifyToken(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token is valid for %s\n", email)
	return nil
}

// Delete removes the logged-in account after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to delete your account", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		return errAborted
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.DeleteUser(ctx); err != nil {
		return err
	}

	a.email = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
