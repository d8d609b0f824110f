package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Table names accepted by the aggregate helpers. Anything else is refused
// before a query is built.
const (
	TableUsers    = "users"
	TableOrders   = "orders"
	TableQuotes   = "quotes"
	TableContacts = "contacts"
)

var statusTables = map[string]bool{TableOrders: true, TableQuotes: true, TableContacts: true}

type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// CountByStatus groups the rows of table by status. userID, when non-nil,
// restricts the count to one account's rows.
func (r *StatsRepo) CountByStatus(ctx context.Context, table string, userID *uint64) (map[string]int64, error) {
	if !statusTables[table] {
		return nil, fmt.Errorf("count by status: unknown table %q", table)
	}
	b := sq.Select("status", "COUNT(*)").From(table).GroupBy("status")
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

	out := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// CountUsers counts every account.
func (r *StatsRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// SumOrderPrice totals the price of orders in the given statuses,
// optionally for one account only.
func (r *StatsRepo) SumOrderPrice(ctx context.Context, statuses []string, userID *uint64) (float64, error) {
	b := sq.Select("COALESCE(SUM(price), 0)").From(TableOrders).Where(sq.Eq{"status": statuses})
	if userID != nil {
		b = b.Where(sq.Eq{"user_id": *userID})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var sum float64
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}
