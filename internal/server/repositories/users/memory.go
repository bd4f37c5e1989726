package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It honours the same
// uniqueness and atomicity rules as PostgresRepository and is used in tests
// and in the "memory" storage mode.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*models.Account),
		now:      time.Now,
	}
}

func clone(a *models.Account) *models.Account {
	out := *a
	if a.Verification != nil {
		c := *a.Verification
		out.Verification = &c
	}
	if a.PasswordReset != nil {
		c := *a.PasswordReset
		out.PasswordReset = &c
	}
	if a.LastLogin != nil {
		t := *a.LastLogin
		out.LastLogin = &t
	}
	return &out
}

// conflicts reports which uniqueness rule a would break. skipID is ignored.
func (r *MemoryRepository) conflicts(a *models.Account, skipID string) error {
	for id, other := range r.accounts {
		if id == skipID {
			continue
		}
		if strings.EqualFold(other.Email, a.Email) {
			return common.ErrorAlreadyExists
		}
		if a.Verification != nil && other.Verification != nil && a.Verification.Token == other.Verification.Token {
			return common.ErrTokenCollision
		}
		if a.PasswordReset != nil && other.PasswordReset != nil && a.PasswordReset.Token == other.PasswordReset.Token {
			return common.ErrTokenCollision
		}
	}
	return nil
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conflicts(account, ""); err != nil {
		return err
	}

	now := r.now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[account.ID] = clone(account)
	return nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

func (r *MemoryRepository) GetByVerificationToken(_ context.Context, token string, now time.Time) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if live(a.Verification, token, now) {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByResetToken(_ context.Context, token string, now time.Time) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if live(a.PasswordReset, token, now) {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func live(c *models.Credential, token string, now time.Time) bool {
	return c != nil && c.Token == token && c.ExpiresAt.After(now)
}

// update applies fn to the stored account under the lock. fn returns false
// when its guard does not hold.
func (r *MemoryRepository) update(id string, fn func(a *models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	next := clone(stored)
	if !fn(next) {
		return nil, common.ErrorNotFound
	}
	if err := r.conflicts(next, id); err != nil {
		return nil, err
	}

	next.UpdatedAt = r.now()
	r.accounts[id] = next
	return clone(next), nil
}

func (r *MemoryRepository) SetVerificationToken(_ context.Context, id string, c models.Credential) error {
	_, err := r.update(id, func(a *models.Account) bool {
		a.Verification = &c
		return true
	})
	return err
}

func (r *MemoryRepository) SetResetToken(_ context.Context, id string, c models.Credential) error {
	_, err := r.update(id, func(a *models.Account) bool {
		a.PasswordReset = &c
		return true
	})
	return err
}

func (r *MemoryRepository) ConsumeVerificationToken(_ context.Context, id, token string) (*models.Account, error) {
	return r.update(id, func(a *models.Account) bool {
		if a.Verification == nil || a.Verification.Token != token {
			return false
		}
		a.IsVerified = true
		a.Verification = nil
		return true
	})
}

func (r *MemoryRepository) ConsumeResetToken(_ context.Context, id, token, passwordHash string) (*models.Account, error) {
	return r.update(id, func(a *models.Account) bool {
		if a.PasswordReset == nil || a.PasswordReset.Token != token {
			return false
		}
		a.PasswordHash = passwordHash
		a.PasswordReset = nil
		return true
	})
}

func (r *MemoryRepository) RecordLogin(_ context.Context, id string, at time.Time) (*models.Account, error) {
	return r.update(id, func(a *models.Account) bool {
		a.LastLogin = &at
		return true
	})
}

func (r *MemoryRepository) ReleaseExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.accounts {
		verExpired := a.Verification != nil && !a.Verification.ExpiresAt.After(now)
		resetExpired := a.PasswordReset != nil && !a.PasswordReset.ExpiresAt.After(now)
		if !verExpired && !resetExpired {
			continue
		}

		next := clone(a)
		if verExpired {
			next.Verification = nil
		}
		if resetExpired {
			next.PasswordReset = nil
		}
		next.UpdatedAt = r.now()
		r.accounts[id] = next
		n++
	}
	return n, nil
}
