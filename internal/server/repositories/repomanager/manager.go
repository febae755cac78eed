// Package repomanager vends repository implementations for the configured
// storage driver and owns the shared database handle.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX. Services call
// the factories with DB() for standalone statements, or with the handle
// passed to an InTx callback to join a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	DB() dbx.DBTX
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Ping(ctx context.Context) error
	Close() error

	Users(db dbx.DBTX) users.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Entries(db dbx.DBTX) entries.Repository
}
