package repomanager

import (
	"context"
	"database/sql"

	"github.com/Santos2175/auth-app/internal/dbx"
	"github.com/Santos2175/auth-app/internal/server/repositories/users"
)

// RepositoryManager vends repositories for one storage backend and prepares
// its schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
