package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/launchdev/internal/model"
)

func newRepoWithMock(t *testing.T, driver string) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewUserRepo(sqlx.NewDb(db, driver)), mock
}

var userCols = []string{"id", "email", "name", "password_hash", "is_paid", "plan", "created_at", "updated_at"}

func strPtr(s string) *string { return &s }

func TestCreate_Postgres(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (email, password_hash, name, is_paid) VALUES ($1, $2, $3, FALSE) RETURNING id`)).
		WithArgs("a@x.com", "hash", "A").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Create(context.Background(), "  A@X.com ", "hash", strPtr("A"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestCreate_PostgresUniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "hash", nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), "a@x.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreate_MySQL(t *testing.T) {
	repo, mock := newRepoWithMock(t, "mysql")

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO users (email, password_hash, name, is_paid) VALUES (?, ?, ?, FALSE)`)).
		WithArgs("a@x.com", "hash", nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "a@x.com", "hash", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestCreate_MySQLDuplicateKey(t *testing.T) {
	repo, mock := newRepoWithMock(t, "mysql")

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_users_email'"})

	_, err := repo.Create(context.Background(), "a@x.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "a@x.com", "hash", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, email, name, password_hash, is_paid, plan, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "a@x.com", "A", "hash", true, "monthly", now, now))

	u, err := repo.GetByEmail(context.Background(), "A@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	require.NotNil(t, u.Name)
	assert.Equal(t, "A", *u.Name)
	assert.True(t, u.IsPaid)
	require.NotNil(t, u.Plan)
	assert.Equal(t, model.PlanMonthly, *u.Plan)
}

func TestGetByID_NullColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t, "mysql")
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ? LIMIT 1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(3), "b@x.com", nil, "hash", false, nil, now, now))

	u, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, u.Name)
	assert.Nil(t, u.Plan)
	assert.False(t, u.IsPaid)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetPlan(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE users SET is_paid = TRUE, plan = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`)).
		WithArgs("lifetime", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetPlan(context.Background(), 5, model.PlanLifetime))
}

func TestSetPlan_NoRow(t *testing.T) {
	repo, mock := newRepoWithMock(t, "mysql")

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = ?`)).
		WithArgs("monthly", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SetPlan(context.Background(), 5, model.PlanMonthly), ErrUserNotFound)
}

func TestSetPlan_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectExec(`UPDATE users`).WillReturnError(errors.New("conn reset"))

	err := repo.SetPlan(context.Background(), 5, model.PlanMonthly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	id, err := repo.Create(ctx, "A@x.com", "hash", strPtr("A"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, "a@x.com ", "other", nil)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, 1, repo.Count())

	u, err := repo.GetByEmail(ctx, "a@X.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.False(t, u.IsPaid)
	assert.Nil(t, u.Plan)

	require.NoError(t, repo.SetPlan(ctx, id, model.PlanMonthly))
	require.NoError(t, repo.SetPlan(ctx, id, model.PlanLifetime))
	u, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.IsPaid)
	assert.Equal(t, model.PlanLifetime, *u.Plan)

	assert.ErrorIs(t, repo.SetPlan(ctx, 999, model.PlanMonthly), ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
