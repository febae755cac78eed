package repomanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/entries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryManager(t *testing.T) {
	var m RepositoryManager = NewMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.Ping(ctx))
	assert.Nil(t, m.DB())

	// the same store is returned regardless of handle
	assert.Same(t, m.Users(nil), m.Users(m.DB()))
	assert.IsType(t, &entries.MemoryRepository{}, m.Entries(nil))

	called := false
	require.NoError(t, m.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		_, err := m.Users(tx).Create(ctx, &models.User{Email: "a@b.c", Name: "a"})
		return err
	}))
	assert.True(t, called)
	require.NoError(t, m.Close())
}

func TestFileRepositoryManager(t *testing.T) {
	m, err := NewFileRepositoryManager(filepath.Join(t.TempDir(), "entries.json"))
	require.NoError(t, err)
	assert.IsType(t, &entries.FileRepository{}, m.Entries(nil))
}

func TestFileRepositoryManager_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.json")

	m, err := NewFileRepositoryManager(path)
	require.NoError(t, err)
	u, err := m.Users(nil).Create(ctx, &models.User{Email: "a@example.com", Name: "a"})
	require.NoError(t, err)
	_, err = m.Entries(nil).Create(ctx, &models.Entry{Title: "Trip", Content: "Went hiking", OwnerID: u.ID})
	require.NoError(t, err)

	for _, name := range []string{"entries.json", "users.json", "accounts.json", "sessions.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	reopened, err := NewFileRepositoryManager(path)
	require.NoError(t, err)
	got, err := reopened.Users(nil).GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	list, err := reopened.Entries(nil).ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFileRepositoryManager_CorruptSibling(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("nope"), 0o600))

	_, err := NewFileRepositoryManager(filepath.Join(dir, "entries.json"))
	require.Error(t, err)
}
