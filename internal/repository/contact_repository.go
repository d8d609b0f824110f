package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const contactColumns = "id, name, email, company, phone, subject, message, status, created_at"

type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

func scanContact(row interface{ Scan(...interface{}) error }) (*model.Contact, error) {
	var c model.Contact
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.Subject, &c.Message,
		&status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = model.ContactStatus(status)
	return &c, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	if c.Status == "" {
		c.Status = model.ContactNew
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO contacts (name, email, company, phone, subject, message, status, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		c.Name, c.Email, c.Company, c.Phone, c.Subject, c.Message, string(c.Status), now)
	if err != nil {
		return err
	}
	if c.ID, err = lastID(res); err != nil {
		return err
	}
	c.CreatedAt = now
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id uint64) (*model.Contact, error) {
	c, err := scanContact(r.DB.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List returns contact requests newest first.
func (r *ContactRepo) List(ctx context.Context) ([]*model.Contact, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+contactColumns+" FROM contacts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) SetStatus(ctx context.Context, id uint64, status model.ContactStatus) error {
	return updateByID(ctx, r.DB, "contacts", id, map[string]interface{}{"status": string(status)})
}

func (r *ContactRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.DB, "contacts", id)
}
