package repomanager

import (
	"context"
	"database/sql"

	"github.com/Santos2175/auth-app/internal/dbx"
	"github.com/Santos2175/auth-app/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves a single process-local store. The DBTX
// handed to Users is ignored and there is nothing to migrate.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}
