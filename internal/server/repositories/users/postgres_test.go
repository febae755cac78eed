package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*name,\s*email_verified,\s*image\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at$`

var userCols = []string{"id", "email", "name", "email_verified", "image", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQ).
		WithArgs("id-1", "alice@example.com", "alice", false, "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	u := &models.User{ID: "id-1", Email: "alice@example.com", Name: "alice"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "id-1" || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "bob", false, "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	got, err := repo.Create(context.Background(), &models.User{Email: "bob@example.com", Name: "bob"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(got.ID) != 36 {
		t.Fatalf("expected uuid, got %q", got.ID)
	}
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{ID: "x", Email: "a@b.c", Name: "a"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "x", Email: "a@b.c", Name: "a"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice@example.com", "Alice", true, "", ts, ts))

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.Name != "Alice" || !u.EmailVerified {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).WillReturnError(errors.New("oops"))

	_, err := repo.GetByID(context.Background(), "u1")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestMarkEmailVerified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET email_verified = TRUE`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET email_verified = TRUE`).WithArgs("u2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE users SET email_verified = TRUE`).WithArgs("u3").WillReturnError(errors.New("down"))

	if err := repo.MarkEmailVerified(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.MarkEmailVerified(context.Background(), "u2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if err := repo.MarkEmailVerified(context.Background(), "u3"); err == nil {
		t.Fatalf("want error")
	}
}
