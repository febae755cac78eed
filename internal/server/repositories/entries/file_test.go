package entries

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_Contract(t *testing.T) {
	repoContract(t, func(t *testing.T) Repository {
		r, err := NewFileRepository(filepath.Join(t.TempDir(), "entries.json"))
		require.NoError(t, err)
		return r
	})
}

func TestNewFileRepository_CreatesEmptyArray(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data", "entries.json")

	r, err := NewFileRepository(p)
	require.NoError(t, err)
	assert.Equal(t, p, r.Path())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestFileRepository_PersistsNewestFirstAcrossReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "entries.json")
	ctx := context.Background()

	r, err := NewFileRepository(p)
	require.NoError(t, err)
	first, err := r.Create(ctx, &models.Entry{Title: "one", Content: "1", OwnerID: "u1"})
	require.NoError(t, err)
	second, err := r.Create(ctx, &models.Entry{Title: "two", Content: "2", OwnerID: "u1"})
	require.NoError(t, err)

	var onDisk []models.Entry
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &onDisk))
	require.Len(t, onDisk, 2)
	assert.Equal(t, second.ID, onDisk[0].ID)

	reopened, err := NewFileRepository(p)
	require.NoError(t, err)
	third, err := reopened.Create(ctx, &models.Entry{Title: "three", Content: "3", OwnerID: "u1"})
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)
	assert.Greater(t, second.ID, first.ID)

	list, err := reopened.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestFileRepository_IDsAreMillisOrLastPlusOne(t *testing.T) {
	p := filepath.Join(t.TempDir(), "entries.json")
	r, err := NewFileRepository(p)
	require.NoError(t, err)

	fixed := time.UnixMilli(1_700_000_000_000)
	r.now = func() time.Time { return fixed }

	a, err := r.Create(context.Background(), &models.Entry{Title: "a", Content: "a", OwnerID: "u"})
	require.NoError(t, err)
	b, err := r.Create(context.Background(), &models.Entry{Title: "b", Content: "b", OwnerID: "u"})
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), a.ID)
	assert.Equal(t, int64(1_700_000_000_001), b.ID)
}

func TestNewFileRepository_CorruptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))

	_, err := NewFileRepository(p)
	require.Error(t, err)
}
