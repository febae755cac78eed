package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, title, content, user_id, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO entries (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING ` + entryColumns

	out := &models.Entry{}
	if err := scanEntry(r.db.QueryRowContext(ctx, query, e.Title, e.Content, e.OwnerID), out); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		item := &models.Entry{}
		if err := scanEntry(rows, item); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, ownerID string) (int64, error) {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffected(res)
}

func (r *PostgresRepository) OwnerOf(ctx context.Context, id int64) (string, error) {
	query := `SELECT user_id FROM entries WHERE id = $1`

	var owner string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

// Update changes only the supplied columns; NULL parameters keep the
// stored value.
func (r *PostgresRepository) Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error) {
	query := `
		UPDATE entries
		SET title = COALESCE($3, title),
			content = COALESCE($4, content),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + entryColumns

	out := &models.Entry{}
	err := scanEntry(r.db.QueryRowContext(ctx, query, id, ownerID, nullable(patch.Title), nullable(patch.Content)), out)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, e *models.Entry) error {
	return s.Scan(&e.ID, &e.Title, &e.Content, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
