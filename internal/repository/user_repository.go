package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const userColumns = "id, first_name, last_name, email, password_hash, company, phone, role, is_active, created_at, updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserPatch lists the columns a partial update may touch. Nil fields are
// left alone.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Company      *string
	Phone        *string
	Role         *model.Role
	IsActive     *bool
	PasswordHash *string
}

func (p UserPatch) set() map[string]interface{} {
	m := map[string]interface{}{}
	if p.FirstName != nil {
		m["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		m["last_name"] = *p.LastName
	}
	if p.Email != nil {
		m["email"] = normalizeEmail(*p.Email)
	}
	if p.Company != nil {
		m["company"] = *p.Company
	}
	if p.Phone != nil {
		m["phone"] = *p.Phone
	}
	if p.Role != nil {
		m["role"] = string(*p.Role)
	}
	if p.IsActive != nil {
		m["is_active"] = *p.IsActive
	}
	if p.PasswordHash != nil {
		m["password_hash"] = *p.PasswordHash
	}
	return m
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Company, &u.Phone, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

// Create inserts u and fills in its id and timestamps. The email is stored
// lower-cased; a duplicate yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleMember
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, company, phone, role, is_active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Company, u.Phone, string(u.Role), u.IsActive, now, now)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if u.ID, err = lastID(res); err != nil {
		return err
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// FirstAdmin returns the admin account with the lowest id.
func (r *UserRepo) FirstAdmin(ctx context.Context) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY id LIMIT 1", string(model.RoleAdmin)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// List returns every account ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update applies p to the account. A duplicate email yields ErrEmailExists.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch) error {
	if err := updateByID(ctx, r.DB, "users", id, p.set()); err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// Delete removes the account together with its orders and every private
// message it sent or received. Quotes it requested are kept, detached and
// marked as guest quotes.
// All statements run in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM private_messages WHERE sender_id = ? OR recipient_id = ?", id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE user_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE quotes SET user_id = NULL, has_account = 0 WHERE user_id = ?", id); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "users", id)
	})
}
