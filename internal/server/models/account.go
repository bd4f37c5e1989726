package models

import "time"

// Credential is a short-lived secret together with the instant it stops
// being accepted. Token and expiry always travel as a pair.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Account is a registered user as persisted by the credential store.
type Account struct {
	ID           string     `json:"_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Verification is set while email verification is pending.
	Verification *Credential `json:"-"`
	// PasswordReset is set while a password reset is pending.
	PasswordReset *Credential `json:"-"`
}

// Redacted returns a copy safe to hand outside the service: no password
// digest and no pending credentials.
func (a *Account) Redacted() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.PasswordHash = ""
	out.Verification = nil
	out.PasswordReset = nil
	if a.LastLogin != nil {
		t := *a.LastLogin
		out.LastLogin = &t
	}
	return &out
}
