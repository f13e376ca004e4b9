package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/launchdev/internal/model"
)

// userRow mirrors the 'users' table.
type userRow struct {
	ID           int64          `db:"id"`
	Email        string         `db:"email"`
	Name         sql.NullString `db:"name"`
	PasswordHash string         `db:"password_hash"`
	IsPaid       bool           `db:"is_paid"`
	Plan         sql.NullString `db:"plan"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toModel() model.User {
	u := model.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsPaid:       r.IsPaid,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Name.Valid {
		name := r.Name.String
		u.Name = &name
	}
	if r.Plan.Valid {
		plan := model.Plan(r.Plan.String)
		u.Plan = &plan
	}
	return u
}

const userColumns = "id, email, name, password_hash, is_paid, plan, created_at, updated_at"

// UserRepo is the SQL credential store.  Queries are written with '?'
// placeholders and rebound for the connected driver.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts an unpaid user without a plan and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, name *string) (int64, error) {
	email = normalizeEmail(email)
	var id int64
	if r.DB.DriverName() == "mysql" {
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO users (email, password_hash, name, is_paid) VALUES (?, ?, ?, FALSE)",
			email, passwordHash, name)
		if err != nil {
			return 0, insertError(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		return id, nil
	}

	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(
		"INSERT INTO users (email, password_hash, name, is_paid) VALUES (?, ?, ?, FALSE) RETURNING id"),
		email, passwordHash, name).Scan(&id)
	if err != nil {
		return 0, insertError(err)
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
}

// SetPlan marks the user as paid with the given plan.  Repeating the same
// plan leaves the row unchanged; a different plan overwrites the previous one.
func (r *UserRepo) SetPlan(ctx context.Context, id int64, plan model.Plan) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(
		"UPDATE users SET is_paid = TRUE, plan = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"),
		string(plan), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Ping reports whether the store is reachable.
func (r *UserRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var row userRow
	if err := r.DB.GetContext(ctx, &row, r.DB.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	return row.toModel(), nil
}

// insertError translates unique violations of either driver into ErrEmailExists.
func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailExists
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrEmailExists
	}
	return fmt.Errorf("db error: %w", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
