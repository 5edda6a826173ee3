package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/parkease/parking-slot-reservation/internal/utils"
)

// User mirrors the users table. The password hash stays inside the
// auth flow and is never serialized into a response.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrEmailExists is returned when registration hits the unique index
// on users.email.
var ErrEmailExists = errors.New("email already exists")

// UserRepo provides methods to work with user accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// Create hashes the password and inserts the account, returning the
// generated id. Emails are normalized to lower case so lookups stay
// case-insensitive. A duplicate key (MySQL error 1062) on the email
// index maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, email, hash, role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email. Callers see
// sql.ErrNoRows when no account matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	q := `SELECT ` + userCols + ` FROM users WHERE email = ? LIMIT 1`
	var u User
	err := scanUser(r.db.QueryRowContext(ctx, q, email), &u)
	return u, err
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE id = ? LIMIT 1`
	var u User
	err := scanUser(r.db.QueryRowContext(ctx, q, id), &u)
	return u, err
}
