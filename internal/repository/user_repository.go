package repository

import (
	"context"
	"database/sql"
	"strings"

	"advicehub/internal/model"
	"advicehub/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,roles,is_active,created_at,updated_at"

// Create inserts a user with the USER role and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, roles) VALUES (?,?,?)",
		email, hash, string(model.RoleUser))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
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

// GetByEmail fetches a user by normalized email. Returns ErrNotFound when no
// such user exists; disabled users are still returned so callers can tell
// "unknown" apart from "disabled".
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateRoles replaces a user's role set. Only the admin endpoint calls this;
// outstanding tokens keep their old role claims until they expire. Callers
// are expected to have verified the user exists.
func (r *UserRepo) UpdateRoles(ctx context.Context, id uint64, roles []string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET roles=? WHERE id=?", model.JoinRoles(roles), id)
	return err
}

// Disable soft-disables a user. The row stays because advice and ratings
// reference it; login and token refresh reject inactive users.
func (r *UserRepo) Disable(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var roles string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &roles, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	u.Roles = model.ParseRoles(roles)
	return u, nil
}
