package resources

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+resources.*ON\s+CONFLICT\s+\(user_id,\s*path\)`
	mock.ExpectExec(q).
		WithArgs("u1", "user-1", "healthpod/data/a.json.enc.ttl", []byte("body"), "", true, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := &models.Resource{
		ID: "u1", UserID: "user-1", Path: "healthpod/data/a.json.enc.ttl",
		Content: []byte("body"), Encrypted: true, Size: 4,
	}
	if err := repo.Upsert(context.Background(), res); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*user_id,\s*path,\s*content`
	mock.ExpectQuery(q).WithArgs("user-1", "missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "user-1", "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ReturnsStorageKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+resources.*RETURNING\s+storage_key`
	rows := sqlmock.NewRows([]string{"storage_key"}).AddRow("users/2026/08/30/abc")
	mock.ExpectQuery(q).WithArgs("user-1", "healthpod/data/a.json.enc.ttl").WillReturnRows(rows)

	key, err := repo.Delete(context.Background(), "user-1", "healthpod/data/a.json.enc.ttl")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if key != "users/2026/08/30/abc" {
		t.Fatalf("unexpected storage key: %q", key)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+resources`
	mock.ExpectQuery(q).WithArgs("user-1", "missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Delete(context.Background(), "user-1", "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByPrefix(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^\s*SELECT\s+path,\s*size,\s*updated_at\s+FROM\s+resources`
	rows := sqlmock.NewRows([]string{"path", "size", "updated_at"}).
		AddRow("healthpod/data/a.json.enc.ttl", int64(10), now).
		AddRow("healthpod/data/bp/b.json.enc.ttl", int64(20), now)
	mock.ExpectQuery(q).WithArgs("user-1", `healthpod/data/%`).WillReturnRows(rows)

	got, err := repo.ListByPrefix(context.Background(), "user-1", "healthpod/data")
	if err != nil {
		t.Fatalf("ListByPrefix error: %v", err)
	}
	if len(got) != 2 || got[0].Path != "healthpod/data/a.json.enc.ttl" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestLikeEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain/dir", "plain/dir"},
		{"dir_with_underscores", `dir\_with\_underscores`},
		{"100%", `100\%`},
	}
	for _, tt := range tests {
		if got := likeEscape(tt.in); got != tt.want {
			t.Fatalf("likeEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
