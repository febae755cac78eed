package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO accounts (id, account_id, provider_id, user_id, password_hash, access_token, refresh_token, scope)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.AccountID, a.ProviderID, a.UserID, a.PasswordHash, a.AccessToken, a.RefreshToken, a.Scope,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

const accountColumns = `id, account_id, provider_id, user_id, password_hash, access_token, refresh_token, scope, created_at, updated_at`

func (r *PostgresRepository) FindByProvider(ctx context.Context, providerID, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE provider_id = $1 AND account_id = $2`
	return r.getOne(ctx, query, providerID, accountID)
}

func (r *PostgresRepository) FindByUser(ctx context.Context, userID, providerID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND provider_id = $2`
	return r.getOne(ctx, query, userID, providerID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.AccountID, &a.ProviderID, &a.UserID, &a.PasswordHash,
		&a.AccessToken, &a.RefreshToken, &a.Scope, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken, scope string) error {
	query := `
		UPDATE accounts
		SET access_token = $2, refresh_token = $3, scope = $4, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, accessToken, refreshToken, scope); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
