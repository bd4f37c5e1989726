package auth

import (
	"context"
	"fmt"

	"github.com/Santos2175/auth-app/internal/common"
)

// RevocationChecker reports whether a session id was revoked before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Guard admits requests that carry a valid session token.
type Guard struct {
	mint    *Mint
	revoked RevocationChecker
}

// NewGuard returns a Guard. revoked may be nil when revocation is disabled.
func NewGuard(mint *Mint, revoked RevocationChecker) *Guard {
	return &Guard{mint: mint, revoked: revoked}
}

// Authenticate returns the account id asserted by token.
//
// Errors: common.ErrNoToken for an empty token, common.ErrInvalidToken for a
// bad, expired or revoked one, common.ErrorInternal when verification itself
// could not be carried out.
func (g *Guard) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrNoToken
	}

	claims, err := g.mint.ParseSessionToken(token)
	if err != nil {
		return "", err
	}

	if g.revoked != nil && claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("%w: revocation lookup: %v", common.ErrorInternal, err)
		}
		if revoked {
			return "", common.ErrInvalidToken
		}
	}

	return claims.UserID, nil
}
