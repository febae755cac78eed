package repomanager

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from process memory,
// optionally mirrored to JSON files (see NewFileRepositoryManager).
// There is no database handle: DB returns nil and the factories ignore
// their argument. InTx serialises callbacks, which is all the single
// process store needs.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	users    *users.MemoryRepository
	accounts *accounts.MemoryRepository
	sessions *sessions.MemoryRepository
	entries  entries.Repository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		accounts: accounts.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
		entries:  entries.NewMemoryRepository(),
	}
}

// Sibling files of the entries file used by the file driver.
const (
	usersFile    = "users.json"
	accountsFile = "accounts.json"
	sessionsFile = "sessions.json"
)

// NewFileRepositoryManager stores entries in the JSON file at path and
// users, accounts and sessions in users.json, accounts.json and
// sessions.json in the same directory, so logins and entry ownership
// survive a restart.
func NewFileRepositoryManager(path string) (*MemoryRepositoryManager, error) {
	dir := filepath.Dir(path)

	e, err := entries.NewFileRepository(path)
	if err != nil {
		return nil, err
	}
	u, err := users.NewFileRepository(filepath.Join(dir, usersFile))
	if err != nil {
		return nil, err
	}
	a, err := accounts.NewFileRepository(filepath.Join(dir, accountsFile))
	if err != nil {
		return nil, err
	}
	s, err := sessions.NewFileRepository(filepath.Join(dir, sessionsFile))
	if err != nil {
		return nil, err
	}

	return &MemoryRepositoryManager{users: u, accounts: a, sessions: s, entries: e}, nil
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }
func (m *MemoryRepositoryManager) DB() dbx.DBTX                            { return nil }
func (m *MemoryRepositoryManager) Ping(ctx context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                            { return nil }

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository       { return m.users }
func (m *MemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }
func (m *MemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return m.sessions }
func (m *MemoryRepositoryManager) Entries(dbx.DBTX) entries.Repository   { return m.entries }
