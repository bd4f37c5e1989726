// Package users is the credential store: accounts keyed by id and by
// case-insensitive email, with their pending verification and reset
// credentials.
package users

import (
	"context"
	"time"

	"github.com/Santos2175/auth-app/internal/server/models"
)

// Repository is the store contract the auth service relies on. Every write
// is a single atomic statement against one account.
//
// Lookups of a missing account return common.ErrorNotFound. A credential
// that clashes with a stored one of the same class returns
// common.ErrTokenCollision, even when the stored one has expired.
type Repository interface {
	// Create inserts account and fills in its id and timestamps. A taken
	// email returns common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByVerificationToken finds the account whose verification code is
	// token and whose expiry is strictly after now. This is the only place
	// verification expiry is checked.
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*models.Account, error)
	// GetByResetToken is GetByVerificationToken for reset tokens.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error)

	SetVerificationToken(ctx context.Context, id string, c models.Credential) error
	SetResetToken(ctx context.Context, id string, c models.Credential) error

	// ConsumeVerificationToken marks the account verified and clears the
	// verification credential, provided it still equals token.
	ConsumeVerificationToken(ctx context.Context, id, token string) (*models.Account, error)
	// ConsumeResetToken swaps in passwordHash and clears the reset
	// credential, provided it still equals token.
	ConsumeResetToken(ctx context.Context, id, token, passwordHash string) (*models.Account, error)

	RecordLogin(ctx context.Context, id string, at time.Time) (*models.Account, error)

	// ReleaseExpiredTokens clears every verification and reset credential
	// that expired at or before now, so its value can be issued again. It
	// returns the number of accounts touched.
	ReleaseExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
