package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

func TestGuard_Authenticate(t *testing.T) {
	m, _ := newTestMint(t)
	ctx := context.Background()

	tok, _, err := m.SessionToken("acc-1")
	require.NoError(t, err)
	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		id, err := NewGuard(m, nil).Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", id)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewGuard(m, nil).Authenticate(ctx, "")
		assert.ErrorIs(t, err, common.ErrNoToken)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := NewGuard(m, nil).Authenticate(ctx, tok+"x")
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("revoked", func(t *testing.T) {
		g := NewGuard(m, &stubRevocations{revoked: map[string]bool{claims.ID: true}})
		_, err := g.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("not revoked", func(t *testing.T) {
		g := NewGuard(m, &stubRevocations{revoked: map[string]bool{}})
		id, err := g.Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", id)
	})

	t.Run("revocation store failure is internal", func(t *testing.T) {
		g := NewGuard(m, &stubRevocations{err: errors.New("redis down")})
		_, err := g.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorInternal)
		assert.NotErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestAccountIDContext(t *testing.T) {
	ctx := WithAccountID(context.Background(), "acc-9")
	assert.Equal(t, "acc-9", AccountIDFromContext(ctx))
	assert.Equal(t, "", AccountIDFromContext(context.Background()))
}
