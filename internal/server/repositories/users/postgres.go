package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/dbx"
	"github.com/Santos2175/auth-app/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"

	emailKey             = "users_email_key"
	verificationTokenKey = "users_verification_token_key"
	resetTokenKey        = "users_reset_password_token_key"
)

const accountColumns = `id, email, name, password_hash, is_verified,
		 verification_token, verification_token_expires_at,
		 reset_password_token, reset_password_expires_at,
		 last_login, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a                    models.Account
		verToken, resetToken sql.NullString
		verExpires, resetExp sql.NullTime
		lastLogin            sql.NullTime
	)

	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsVerified,
		&verToken, &verExpires, &resetToken, &resetExp,
		&lastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if verToken.Valid && verExpires.Valid {
		a.Verification = &models.Credential{Token: verToken.String, ExpiresAt: verExpires.Time}
	}
	if resetToken.Valid && resetExp.Valid {
		a.PasswordReset = &models.Credential{Token: resetToken.String, ExpiresAt: resetExp.Time}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLogin = &t
	}

	return &a, nil
}

// mapError turns driver errors into the store's sentinel errors.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			switch pgErr.ConstraintName {
			case emailKey:
				return common.ErrorAlreadyExists
			case verificationTokenKey, resetTokenKey:
				return common.ErrTokenCollision
			}
		case pgInvalidTextFormat:
			// malformed uuid
			return common.ErrorNotFound
		}
	}

	return fmt.Errorf("db error: %w", err)
}

func credentialArgs(c *models.Credential) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Token, c.ExpiresAt
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	query :=
		`INSERT INTO users (email, name, password_hash, is_verified,
		                    verification_token, verification_token_expires_at,
		                    reset_password_token, reset_password_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	verToken, verExpires := credentialArgs(account.Verification)
	resetToken, resetExpires := credentialArgs(account.PasswordReset)

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.IsVerified,
		verToken, verExpires, resetToken, resetExpires,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE lower(email) = lower($1)
		 `

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1
		 `

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE verification_token = $1 AND verification_token_expires_at > $2
		 `

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, token, now))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE reset_password_token = $1 AND reset_password_expires_at > $2
		 `

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, token, now))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) SetVerificationToken(ctx context.Context, id string, c models.Credential) error {
	query :=
		`UPDATE users SET verification_token = $2, verification_token_expires_at = $3, updated_at = now()
		 WHERE id = $1
		 `

	return r.execOne(ctx, query, id, c.Token, c.ExpiresAt)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id string, c models.Credential) error {
	query :=
		`UPDATE users SET reset_password_token = $2, reset_password_expires_at = $3, updated_at = now()
		 WHERE id = $1
		 `

	return r.execOne(ctx, query, id, c.Token, c.ExpiresAt)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ConsumeVerificationToken(ctx context.Context, id, token string) (*models.Account, error) {
	query :=
		`UPDATE users SET is_verified = TRUE,
		                  verification_token = NULL, verification_token_expires_at = NULL,
		                  updated_at = now()
		 WHERE id = $1 AND verification_token = $2
		 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, token))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, id, token, passwordHash string) (*models.Account, error) {
	query :=
		`UPDATE users SET password_hash = $3,
		                  reset_password_token = NULL, reset_password_expires_at = NULL,
		                  updated_at = now()
		 WHERE id = $1 AND reset_password_token = $2
		 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, token, passwordHash))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) RecordLogin(ctx context.Context, id string, at time.Time) (*models.Account, error) {
	query :=
		`UPDATE users SET last_login = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, at))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) ReleaseExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`UPDATE users SET
		        verification_token = CASE WHEN verification_token_expires_at <= $1 THEN NULL ELSE verification_token END,
		        verification_token_expires_at = CASE WHEN verification_token_expires_at <= $1 THEN NULL ELSE verification_token_expires_at END,
		        reset_password_token = CASE WHEN reset_password_expires_at <= $1 THEN NULL ELSE reset_password_token END,
		        reset_password_expires_at = CASE WHEN reset_password_expires_at <= $1 THEN NULL ELSE reset_password_expires_at END,
		        updated_at = now()
		 WHERE verification_token_expires_at <= $1 OR reset_password_expires_at <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
