package sessions

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
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var sessionCols = []string{"id", "token", "user_id", "expires_at", "ip_address", "user_agent", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour).UTC()
	mock.ExpectQuery(`INSERT INTO sessions \(id, token, user_id, expires_at, ip_address, user_agent\)`).
		WithArgs(sqlmock.AnyArg(), "tok", "u1", exp, "127.0.0.1", "curl").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	s := &models.Session{Token: "tok", UserID: "u1", ExpiresAt: exp, IPAddress: "127.0.0.1", UserAgent: "curl"}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO sessions`).WillReturnError(errors.New("insert failed"))

	err := repo.Create(context.Background(), &models.Session{Token: "tok", UserID: "u1"})
	if err == nil || !regexp.MustCompile(`db error: .*insert failed`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFindByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour).UTC()
	mock.ExpectQuery(`SELECT id, token, user_id, expires_at, ip_address, user_agent, created_at, updated_at\s+FROM sessions\s+WHERE token = \$1`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(sessionCols).AddRow("s1", "tok", "u1", exp, "", "", exp, exp))

	s, err := repo.FindByToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UserID != "u1" || !s.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestFindByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM sessions`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByToken(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestFindByToken_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM sessions`).WillReturnError(errors.New("db down"))

	_, err := repo.FindByToken(context.Background(), "tok")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sessions WHERE token = \$1`).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE token = \$1`).WithArgs("tok").WillReturnError(errors.New("down"))

	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), "tok"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \$1`).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at`).WillReturnError(errors.New("down"))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil || n != 4 {
		t.Fatalf("want 4 rows, got %d, %v", n, err)
	}
	if _, err := repo.DeleteExpired(context.Background(), now); err == nil {
		t.Fatalf("expected error")
	}
}
