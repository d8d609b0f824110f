package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const orderColumns = "id, order_code, title, type, status, price, description, progress, user_id, created_at, updated_at, completed_at"

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

type OrderPatch struct {
	Title       *string
	Type        *string
	Status      *model.OrderStatus
	Price       *float64
	Description *string
	Progress    *int
	CompletedAt *time.Time
}

func (p OrderPatch) set() map[string]interface{} {
	m := map[string]interface{}{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Type != nil {
		m["type"] = *p.Type
	}
	if p.Status != nil {
		m["status"] = string(*p.Status)
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Progress != nil {
		m["progress"] = *p.Progress
	}
	if p.CompletedAt != nil {
		m["completed_at"] = *p.CompletedAt
	}
	return m
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*model.Order, error) {
	var o model.Order
	var status string
	var completed sql.NullTime
	if err := row.Scan(&o.ID, &o.Code, &o.Title, &o.Type, &status, &o.Price, &o.Description,
		&o.Progress, &o.UserID, &o.CreatedAt, &o.UpdatedAt, &completed); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if completed.Valid {
		t := completed.Time
		o.CompletedAt = &t
	}
	return &o, nil
}

// Create inserts o and fills in its id and timestamps.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO orders (order_code, title, type, status, price, description, progress, user_id, created_at, updated_at, completed_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		o.Code, o.Title, o.Type, string(o.Status), o.Price, o.Description, o.Progress, o.UserID, now, now, o.CompletedAt)
	if err != nil {
		return err
	}
	if o.ID, err = lastID(res); err != nil {
		return err
	}
	o.CreatedAt, o.UpdatedAt = now, now
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// List returns orders newest first. A non-nil userID restricts the result
// to that account.
func (r *OrderRepo) List(ctx context.Context, userID *uint64) ([]*model.Order, error) {
	b := sq.Select(orderColumns).From("orders").OrderBy("created_at DESC", "id DESC")
	if userID != nil {
		b = b.Where(sq.Eq{"user_id": *userID})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Update(ctx context.Context, id uint64, p OrderPatch) error {
	return updateByID(ctx, r.DB, "orders", id, p.set())
}

func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.DB, "orders", id)
}
