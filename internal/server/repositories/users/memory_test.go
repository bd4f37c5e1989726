package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func seed(t *testing.T, r *MemoryRepository, email, code string, expires time.Time) *models.Account {
	t.Helper()
	a := &models.Account{
		Email:        email,
		Name:         "A",
		PasswordHash: "digest",
		Verification: &models.Credential{Token: code, ExpiresAt: expires},
	}
	require.NoError(t, r.Create(context.Background(), a))
	return a
}

func TestMemory_CreateAndLookup(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a := seed(t, r, "A@x.com", "111111", ts.Add(time.Hour))
	require.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := r.GetByEmail(ctx, "a@X.COM")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A@x.com", got.Email)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_Uniqueness(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "a@x.com", "111111", ts.Add(time.Hour))

	err := r.Create(context.Background(), &models.Account{Email: "A@X.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	err = r.Create(context.Background(), &models.Account{
		Email:        "b@x.com",
		Verification: &models.Credential{Token: "111111", ExpiresAt: ts},
	})
	assert.ErrorIs(t, err, common.ErrTokenCollision)

	b := seed(t, r, "b@x.com", "222222", ts.Add(time.Hour))
	err = r.SetVerificationToken(context.Background(), b.ID, models.Credential{Token: "111111", ExpiresAt: ts})
	assert.ErrorIs(t, err, common.ErrTokenCollision)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "a@x.com", "111111", ts.Add(time.Hour))

	got, err := r.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	got.Verification.Token = "mutated"
	got.IsVerified = true

	again, err := r.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "111111", again.Verification.Token)
	assert.False(t, again.IsVerified)
}

func TestMemory_TokenLookupHonoursExpiry(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	expires := ts.Add(time.Hour)
	a := seed(t, r, "a@x.com", "111111", expires)

	got, err := r.GetByVerificationToken(ctx, "111111", expires.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = r.GetByVerificationToken(ctx, "111111", expires)
	assert.ErrorIs(t, err, common.ErrorNotFound, "now == expiresAt is already expired")

	_, err = r.GetByVerificationToken(ctx, "111111", expires.Add(time.Millisecond))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.SetResetToken(ctx, a.ID, models.Credential{Token: "abcd", ExpiresAt: expires}))
	_, err = r.GetByResetToken(ctx, "abcd", expires.Add(-time.Millisecond))
	require.NoError(t, err)
	_, err = r.GetByResetToken(ctx, "abcd", expires.Add(time.Millisecond))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ConsumeIsGuarded(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	a := seed(t, r, "a@x.com", "111111", ts.Add(time.Hour))

	_, err := r.ConsumeVerificationToken(ctx, a.ID, "999999")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := r.ConsumeVerificationToken(ctx, a.ID, "111111")
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.Verification)

	_, err = r.ConsumeVerificationToken(ctx, a.ID, "111111")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.SetResetToken(ctx, a.ID, models.Credential{Token: "abcd", ExpiresAt: ts.Add(time.Hour)}))
	got, err = r.ConsumeResetToken(ctx, a.ID, "abcd", "new-digest")
	require.NoError(t, err)
	assert.Equal(t, "new-digest", got.PasswordHash)
	assert.Nil(t, got.PasswordReset)

	_, err = r.ConsumeResetToken(ctx, a.ID, "abcd", "other")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "a@x.com", "111111", ts.Add(time.Hour))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.ConsumeVerificationToken(context.Background(), a.ID, "111111"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemory_RecordLogin(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "a@x.com", "111111", ts.Add(time.Hour))

	at := ts.Add(3 * time.Hour)
	got, err := r.RecordLogin(context.Background(), a.ID, at)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, at, *got.LastLogin)

	_, err = r.RecordLogin(context.Background(), "missing", at)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ReleaseExpiredTokens(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	stale := seed(t, r, "a@x.com", "111111", ts)
	fresh := seed(t, r, "b@x.com", "222222", ts.Add(time.Hour))
	require.NoError(t, r.SetResetToken(ctx, fresh.ID, models.Credential{Token: "abcd", ExpiresAt: ts.Add(-time.Minute)}))

	// the expired code still blocks reuse until released
	c := seed(t, r, "c@x.com", "333333", ts.Add(time.Hour))
	err := r.SetVerificationToken(ctx, c.ID, models.Credential{Token: "111111", ExpiresAt: ts.Add(time.Hour)})
	require.ErrorIs(t, err, common.ErrTokenCollision)

	n, err := r.ReleaseExpiredTokens(ctx, ts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := r.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Verification)

	got, err = r.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PasswordReset)
	require.NotNil(t, got.Verification)
	assert.Equal(t, "222222", got.Verification.Token)

	require.NoError(t, r.SetVerificationToken(ctx, c.ID, models.Credential{Token: "111111", ExpiresAt: ts.Add(time.Hour)}))

	n, err = r.ReleaseExpiredTokens(ctx, ts)
	require.NoError(t, err)
	assert.Zero(t, n)
}
