// Package notifications renders and delivers the account lifecycle emails.
// Delivery is best effort: failures are logged and never reach the request
// that triggered them.
package notifications

import "context"

// Kind selects the email template.
type Kind string

const (
	KindEmailVerification    Kind = "emailVerification"
	KindPasswordResetRequest Kind = "passwordResetRequest"
	KindPasswordResetSuccess Kind = "passwordResetSuccess"
)

// Notification is one outbound email. Context feeds the template.
type Notification struct {
	Recipient string
	Subject   string
	Kind      Kind
	Context   map[string]any
}

// Sink delivers a single notification.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// Notifier accepts notifications without reporting the outcome.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

func VerificationEmail(to, name, code string) Notification {
	return Notification{
		Recipient: to,
		Subject:   "Verify your email",
		Kind:      KindEmailVerification,
		Context:   map[string]any{"name": name, "verificationCode": code},
	}
}

func PasswordResetRequestEmail(to, name, resetURL string) Notification {
	return Notification{
		Recipient: to,
		Subject:   "Reset your password",
		Kind:      KindPasswordResetRequest,
		Context:   map[string]any{"name": name, "resetURL": resetURL},
	}
}

func PasswordResetSuccessEmail(to, name string) Notification {
	return Notification{
		Recipient: to,
		Subject:   "Password reset successful",
		Kind:      KindPasswordResetSuccess,
		Context:   map[string]any{"name": name},
	}
}
