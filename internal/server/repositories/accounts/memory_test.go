package accounts

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a, err := r.Create(ctx, &models.Account{AccountID: "g1", ProviderID: common.ProviderGoogle, UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)

	_, err = r.Create(ctx, &models.Account{AccountID: "g1", ProviderID: common.ProviderGoogle, UserID: "u2"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	got, err := r.FindByProvider(ctx, common.ProviderGoogle, "g1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, r.UpdateTokens(ctx, a.ID, "at", "rt", "email"))
	got, err = r.FindByUser(ctx, "u1", common.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "email", got.Scope)

	_, err = r.FindByUser(ctx, "u1", common.ProviderCredential)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
