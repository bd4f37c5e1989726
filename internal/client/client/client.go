package client

import (
	"context"
	"time"
)

// Account is the public account view returned by the server.
type Account struct {
	ID         string     `json:"_id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	IsVerified bool       `json:"isVerified"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Client interface {
	Signup(ctx context.Context, email, name string, password []byte) (*Account, error)
	Login(ctx context.Context, email string, password []byte) (*Account, error)
	Logout(ctx context.Context) error
	VerifyEmail(ctx context.Context, code string) (*Account, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	Me(ctx context.Context) (*Account, error)
	HasSession() bool
}
