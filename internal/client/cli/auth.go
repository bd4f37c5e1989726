package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santos2175/auth-app/internal/client/client"
	"github.com/Santos2175/auth-app/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const resetPathMarker = "/reset-password/"

func (a *App) printAccount(acc *client.Account) {
	if acc == nil {
		return
	}
	fmt.Fprintf(a.out, "  id:       %s\n", acc.ID)
	fmt.Fprintf(a.out, "  email:    %s\n", acc.Email)
	fmt.Fprintf(a.out, "  name:     %s\n", acc.Name)
	fmt.Fprintf(a.out, "  verified: %t\n", acc.IsVerified)
	if acc.LastLogin != nil {
		fmt.Fprintf(a.out, "  last login: %s\n", acc.LastLogin.Local().Format("2006-01-02 15:04:05"))
	}
}

// Signup creates an account and signs in as it. The server emails a
// verification code; use verify to redeem it.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	acc, err := a.client.Signup(ctx, email, name, password)
	if err != nil {
		return err
	}

	a.account = acc
	fmt.Fprintln(a.out, "Account created. Check your inbox for the verification code.")
	return nil
}

// Login authenticates with email and password. Unverified accounts are
// refused and sent a fresh code.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	acc, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.account = acc
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}

	acc, err := a.client.VerifyEmail(ctx, code)
	if err != nil {
		return err
	}

	if acc != nil && a.account != nil && a.account.ID == acc.ID {
		a.account = acc
	}
	fmt.Fprintln(a.out, "Email verified")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	if err := a.client.ForgotPassword(ctx, email); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password reset link sent. Paste the link or its token into reset.")
	return nil
}

// Reset accepts either the bare token or the whole link from the email.
func (a *App) Reset(ctx context.Context) error {
	input, err := getSimpleText(a.reader, "Enter reset link or token", a.out)
	if err != nil {
		return err
	}
	token := resetToken(input)
	if token == "" {
		return fmt.Errorf("no reset token given")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.client.ResetPassword(ctx, token, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password changed. You can log in with the new password.")
	return nil
}

func resetToken(input string) string {
	input = strings.TrimSpace(input)
	if i := strings.LastIndex(input, resetPathMarker); i >= 0 {
		input = input[i+len(resetPathMarker):]
	}
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}
	return strings.Trim(input, "/")
}

func (a *App) Me(ctx context.Context) error {
	acc, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	a.account = acc
	a.printAccount(acc)
	return nil
}

// Logout ends the session. Local state is cleared even if the server call
// fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.account = nil
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}
