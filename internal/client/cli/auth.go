package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, display name and password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Register(ctx, email, string(password), name); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can login now.")
	return nil
}

// Login prompts for credentials and keeps the session on success.
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

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	user, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.user = user
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
