// Package repository contains data access logic separated from HTTP handlers.
// Each repository owns one table and exposes sentinel errors (ErrEmailExists,
// ErrSlotTaken, the *NotFound values) so handlers can map failure scenarios
// to status codes without inspecting driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// UserRepo persists login accounts in the 'users' table. It implements
// auth.UserStore: lookups return (nil, nil) on a miss, and both refresh token
// hash writes are single-statement, row-atomic updates.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,is_active,is_superuser,person_id,refresh_token_hash,created_at,updated_at"

// Create inserts a user with a freshly generated UUID and a bcrypt password
// hash, and returns the new id.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int, superuser bool, personID *uint64) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, is_superuser, person_id) VALUES (?,?,?,?,?)",
		id, email, hash, superuser, personID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// FindByEmail fetches a user by normalized email. Returns (nil, nil) when no
// row matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByID fetches a user by id. Returns (nil, nil) when no row matches.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateRefreshTokenHash sets or clears (nil) the stored refresh token hash.
func (r *UserRepo) UpdateRefreshTokenHash(ctx context.Context, id string, hash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", hash, id)
	return err
}

// ReplaceRefreshTokenHash swaps the stored hash from oldHash to newHash as a
// single conditional UPDATE. The WHERE clause makes the read-verify-write of
// a rotation a compare-and-swap: zero affected rows means a concurrent
// rotation or revocation already replaced the value.
func (r *UserRepo) ReplaceRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=? AND refresh_token_hash=?",
		newHash, id, oldHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var (
		u        model.User
		personID sql.NullInt64
		tokHash  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser,
		&personID, &tokHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if personID.Valid {
		v := uint64(personID.Int64)
		u.PersonID = &v
	}
	if tokHash.Valid {
		v := tokHash.String
		u.RefreshTokenHash = &v
	}
	return &u, nil
}
