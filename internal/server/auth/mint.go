// Package auth mints and checks the credentials of the account lifecycle:
// email verification codes, password reset tokens and session JWTs.
package auth

import (
	"fmt"
	"time"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/server/config"
	"github.com/Santos2175/auth-app/internal/server/models"
	"github.com/Santos2175/auth-app/internal/shared"
	"github.com/google/uuid"
)

const (
	verificationCodeMin = 100000
	verificationCodeMax = 999999

	// ResetTokenBytes is the amount of randomness in a reset token; the hex
	// form is twice as long.
	ResetTokenBytes = 20
)

// Mint issues credentials. It holds only immutable settings and is safe for
// concurrent use.
type Mint struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

// NewMint builds a Mint from cfg. A nil clock means time.Now.
func NewMint(cfg *config.Config, now func() time.Time) *Mint {
	if now == nil {
		now = time.Now
	}
	return &Mint{
		secret:          []byte(cfg.SecretKey),
		sessionTTL:      cfg.SessionValidityDuration,
		verificationTTL: cfg.VerificationValidityDuration,
		resetTTL:        cfg.ResetValidityDuration,
		now:             now,
	}
}

// Now is the clock every credential expiry is measured against.
func (m *Mint) Now() time.Time {
	return m.now()
}

// SessionTTL is the lifetime of session tokens (and of the session cookie).
func (m *Mint) SessionTTL() time.Duration {
	return m.sessionTTL
}

// VerificationCode returns a 6-digit code drawn uniformly from crypto/rand.
func (m *Mint) VerificationCode() (models.Credential, error) {
	code, err := shared.MakeRandNumericString(verificationCodeMin, verificationCodeMax)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return models.Credential{Token: code, ExpiresAt: m.now().Add(m.verificationTTL)}, nil
}

// ResetToken returns a 40-character hex token.
func (m *Mint) ResetToken() (models.Credential, error) {
	token, err := shared.MakeRandHexString(ResetTokenBytes)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return models.Credential{Token: token, ExpiresAt: m.now().Add(m.resetTTL)}, nil
}

// SessionToken signs a session for accountID and returns it with its expiry.
func (m *Mint) SessionToken(accountID string) (string, time.Time, error) {
	issuedAt := m.now()
	token, err := GenerateToken(accountID, uuid.NewString(), m.secret, issuedAt, m.sessionTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, issuedAt.Add(m.sessionTTL), nil
}

func (m *Mint) ParseSessionToken(token string) (*Claims, error) {
	return ParseToken(token, m.secret, m.now)
}
