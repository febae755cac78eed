package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var accountCols = []string{"id", "account_id", "provider_id", "user_id", "password_hash",
	"access_token", "refresh_token", "scope", "created_at", "updated_at"}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO accounts \(id, account_id, provider_id, user_id, password_hash`).
		WithArgs("a1", "u1", common.ProviderCredential, "u1", "$argon2id$...", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	got, err := repo.Create(context.Background(), &models.Account{
		ID: "a1", AccountID: "u1", ProviderID: common.ProviderCredential, UserID: "u1", PasswordHash: "$argon2id$...",
	})
	require.NoError(t, err)
	assert.Equal(t, ts, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("down"))

	_, err := repo.Create(context.Background(), &models.Account{ProviderID: "google", AccountID: "g1", UserID: "u1"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	_, err = repo.Create(context.Background(), &models.Account{ProviderID: "google", AccountID: "g1", UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestFindByProvider(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE provider_id = \$1 AND account_id = \$2`).
		WithArgs("google", "g1").
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow("a1", "g1", "google", "u1", "", "at", "rt", "email", ts, ts))
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE provider_id = \$1 AND account_id = \$2`).
		WithArgs("google", "g2").
		WillReturnError(sql.ErrNoRows)

	a, err := repo.FindByProvider(context.Background(), "google", "g1")
	require.NoError(t, err)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "at", a.AccessToken)

	_, err = repo.FindByProvider(context.Background(), "google", "g2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE user_id = \$1 AND provider_id = \$2`).
		WithArgs("u1", common.ProviderCredential).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow("a1", "u1", "credential", "u1", "hash", "", "", "", ts, ts))
	mock.ExpectQuery(`SELECT .* FROM accounts`).WillReturnError(errors.New("down"))

	a, err := repo.FindByUser(context.Background(), "u1", common.ProviderCredential)
	require.NoError(t, err)
	assert.Equal(t, "hash", a.PasswordHash)

	_, err = repo.FindByUser(context.Background(), "u1", common.ProviderCredential)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateTokens(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE accounts\s+SET access_token = \$2`).
		WithArgs("a1", "at2", "rt2", "openid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts`).WillReturnError(errors.New("down"))

	require.NoError(t, repo.UpdateTokens(context.Background(), "a1", "at2", "rt2", "openid"))
	require.Error(t, repo.UpdateTokens(context.Background(), "a1", "x", "y", "z"))
}
