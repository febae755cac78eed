package accounts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "accounts.json")

	r, err := NewFileRepository(p)
	require.NoError(t, err)
	a, err := r.Create(ctx, &models.Account{
		AccountID:    "u1",
		ProviderID:   common.ProviderCredential,
		UserID:       "u1",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NoError(t, r.UpdateTokens(ctx, a.ID, "at", "rt", "email"))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFileRepository(p)
	require.NoError(t, err)

	got, err := reopened.FindByUser(ctx, "u1", common.ProviderCredential)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "rt", got.RefreshToken)

	_, err = reopened.Create(ctx, &models.Account{AccountID: "u1", ProviderID: common.ProviderCredential})
	assert.ErrorIs(t, err, common.ErrorConflict)
}
