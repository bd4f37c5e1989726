// Package services contains server-side business logic. This file implements
// AuthService, the account lifecycle: signup, email verification, login,
// logout, password recovery and session checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/logging"
	"github.com/Santos2175/auth-app/internal/server/auth"
	"github.com/Santos2175/auth-app/internal/server/hasher"
	"github.com/Santos2175/auth-app/internal/server/models"
	"github.com/Santos2175/auth-app/internal/server/notifications"
	"github.com/Santos2175/auth-app/internal/server/repositories/repomanager"
	"github.com/Santos2175/auth-app/internal/server/repositories/users"
	"github.com/Santos2175/auth-app/internal/server/revocation"
)

// mintAttempts bounds how often a credential is re-minted after clashing
// with a stored one of the same class.
const mintAttempts = 5

// ResetPath is appended to the client URL, followed by the reset token.
const ResetPath = "/reset-password/"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r SignupRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Name, validation.Required),
	)
	if err == nil {
		return nil
	}

	var fields validation.Errors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	for _, fe := range fields {
		var ve validation.Error
		if errors.As(fe, &ve) && ve.Code() == validation.ErrRequired.Code() {
			return fmt.Errorf("%w: %v", common.ErrRequiredFields, err)
		}
	}
	if _, ok := fields["email"]; ok {
		return fmt.Errorf("%w: %v", common.ErrInvalidEmail, err)
	}
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Session is an authenticated account together with its signed token.
type Session struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}

// AuthService owns every rule of the account lifecycle. It keeps no mutable
// state of its own and is safe for concurrent use.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      hasher.Hasher
	mint        *auth.Mint
	notifier    notifications.Notifier
	revocations revocation.Store
	clientURL   string
	logger      logging.Logger

	// mintCode issues verification codes; tests replace it.
	mintCode func() (models.Credential, error)
}

type Option func(*AuthService)

// WithRevocations turns on server-side logout: revoked session ids are kept
// in store until they expire.
func WithRevocations(store revocation.Store) Option {
	return func(s *AuthService) {
		s.revocations = store
	}
}

// NewAuthService wires the service. db may be nil for storage backends that
// do not use one.
func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	h hasher.Hasher,
	mint *auth.Mint,
	notifier notifications.Notifier,
	clientURL string,
	logger logging.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		db:          db,
		repomanager: m,
		hasher:      h,
		mint:        mint,
		notifier:    notifier,
		clientURL:   strings.TrimRight(clientURL, "/"),
		logger:      logger.With("module", "auth_service"),
		mintCode:    mint.VerificationCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func internal(err error) error {
	if errors.Is(err, common.ErrorInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

// Signup registers a new, unverified account, emails it a verification code
// and signs the caller in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(err)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, internal(err)
	}

	account := &models.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: digest,
	}

	err = s.retryOnCollision(ctx, repo, func() error {
		code, err := s.mintCode()
		if err != nil {
			return err
		}
		account.Verification = &code
		return repo.Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, internal(err)
	}

	token, expires, err := s.mint.SessionToken(account.ID)
	if err != nil {
		return nil, internal(err)
	}

	s.notifier.Notify(ctx, notifications.VerificationEmail(account.Email, account.Name, account.Verification.Token))

	return &Session{Account: account.Redacted(), Token: token, ExpiresAt: expires}, nil
}

// Login checks the password. Verified accounts get a session; unverified ones
// get a fresh verification code by email and common.ErrorEmailNotVerified.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internal(err)
	}

	ok, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	if !account.IsVerified {
		code, err := s.renewVerification(ctx, account.ID, account.Verification)
		if err != nil {
			return nil, err
		}
		s.notifier.Notify(ctx, notifications.VerificationEmail(account.Email, account.Name, code.Token))
		return nil, common.ErrorEmailNotVerified
	}

	account, err = repo.RecordLogin(ctx, account.ID, s.mint.Now())
	if err != nil {
		return nil, internal(err)
	}

	token, expires, err := s.mint.SessionToken(account.ID)
	if err != nil {
		return nil, internal(err)
	}

	return &Session{Account: account.Redacted(), Token: token, ExpiresAt: expires}, nil
}

// renewVerification replaces the pending verification code of an account.
// The new code always differs from current.
func (s *AuthService) renewVerification(ctx context.Context, id string, current *models.Credential) (models.Credential, error) {
	repo := s.repomanager.Users(s.db)

	var code models.Credential
	err := s.retryOnCollision(ctx, repo, func() error {
		var err error
		code, err = s.mintCode()
		if err != nil {
			return err
		}
		if current != nil && code.Token == current.Token {
			return common.ErrTokenCollision
		}
		return repo.SetVerificationToken(ctx, id, code)
	})
	if err != nil {
		return models.Credential{}, internal(err)
	}
	return code, nil
}

// retryOnCollision runs write until it stops returning
// common.ErrTokenCollision, at most mintAttempts times. Expired credentials
// are released between attempts so their values can be minted again.
func (s *AuthService) retryOnCollision(ctx context.Context, repo users.Repository, write func() error) error {
	for attempt := 1; ; attempt++ {
		err := write()
		if !errors.Is(err, common.ErrTokenCollision) || attempt == mintAttempts {
			return err
		}

		n, err := repo.ReleaseExpiredTokens(ctx, s.mint.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info(ctx, "released expired credentials", "count", n)
		}
	}
}

// Logout ends a session. Without a revocation store there is nothing to do
// server side: the token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.revocations == nil {
		return nil
	}

	claims, err := s.mint.ParseSessionToken(token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// nothing valid to revoke
			return nil
		}
		return internal(err)
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return internal(err)
	}
	return nil
}

// VerifyEmail consumes a verification code. A code works at most once and
// never after its expiry.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*models.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, common.ErrorInvalidOrExpired
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByVerificationToken(ctx, code, s.mint.Now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidOrExpired
		}
		return nil, internal(err)
	}

	account, err = repo.ConsumeVerificationToken(ctx, account.ID, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidOrExpired
		}
		return nil, internal(err)
	}

	return account.Redacted(), nil
}

// ForgotPassword mints a reset token, replacing any pending one, and emails
// the reset link. Unknown emails return common.ErrorNotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validation.Validate(email, validation.Required); err != nil {
		return fmt.Errorf("%w: email %v", common.ErrorValidation, err)
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internal(err)
	}

	var reset models.Credential
	err = s.retryOnCollision(ctx, repo, func() error {
		var err error
		reset, err = s.mint.ResetToken()
		if err != nil {
			return err
		}
		return repo.SetResetToken(ctx, account.ID, reset)
	})
	if err != nil {
		return internal(err)
	}

	s.notifier.Notify(ctx, notifications.PasswordResetRequestEmail(account.Email, account.Name, s.ResetURL(reset.Token)))
	return nil
}

// ResetURL is the client page a reset token is redeemed on.
func (s *AuthService) ResetURL(token string) string {
	return s.clientURL + ResetPath + token
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validation.Validate(password, validation.Required); err != nil {
		return fmt.Errorf("%w: password %v", common.ErrorValidation, err)
	}
	if token == "" {
		return common.ErrorInvalidOrExpired
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByResetToken(ctx, token, s.mint.Now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidOrExpired
		}
		return internal(err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		return internal(err)
	}

	account, err = repo.ConsumeResetToken(ctx, account.ID, token, digest)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidOrExpired
		}
		return internal(err)
	}

	s.notifier.Notify(ctx, notifications.PasswordResetSuccessEmail(account.Email, account.Name))
	return nil
}

// CheckAuth returns the account behind an authenticated session.
func (s *AuthService) CheckAuth(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repomanager.Users(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internal(err)
	}
	return account.Redacted(), nil
}
