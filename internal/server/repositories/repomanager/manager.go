package repomanager

import (
	"context"
	"database/sql"

	"github.com/sangvinij/user-management-micro-service/internal/dbx"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/groups"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
}
