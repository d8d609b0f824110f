package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const quoteColumns = `id, project_type, features, budget, timeline, company, email, phone, description,
	estimated_price, user_id, has_account, status, admin_response, admin_price, admin_timeline, responded_at,
	client_response, client_message, client_response_at, created_at, updated_at`

type QuoteRepo struct{ DB *sql.DB }

func NewQuoteRepo(db *sql.DB) *QuoteRepo { return &QuoteRepo{DB: db} }

func scanQuote(row interface{ Scan(...interface{}) error }) (*model.Quote, error) {
	var (
		q                         model.Quote
		features, status          string
		userID                    sql.NullInt64
		adminResp, adminTimeline  sql.NullString
		clientResp, clientMsg     sql.NullString
		adminPrice                sql.NullFloat64
		respondedAt, clientRespAt sql.NullTime
	)
	if err := row.Scan(&q.ID, &q.ProjectType, &features, &q.Budget, &q.Timeline, &q.Company, &q.Email,
		&q.Phone, &q.Description, &q.EstimatedPrice, &userID, &q.HasAccount, &status,
		&adminResp, &adminPrice, &adminTimeline, &respondedAt,
		&clientResp, &clientMsg, &clientRespAt, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	q.Status = model.QuoteStatus(status)
	q.Features = []string{}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &q.Features); err != nil {
			return nil, fmt.Errorf("decode features of quote %d: %w", q.ID, err)
		}
	}
	if userID.Valid {
		id := uint64(userID.Int64)
		q.UserID = &id
	}
	q.AdminResponse = nullString(adminResp)
	q.AdminTimeline = nullString(adminTimeline)
	q.ClientResponse = nullString(clientResp)
	q.ClientMessage = nullString(clientMsg)
	if adminPrice.Valid {
		p := adminPrice.Float64
		q.AdminPrice = &p
	}
	q.RespondedAt = nullTime(respondedAt)
	q.ClientResponseAt = nullTime(clientRespAt)
	return &q, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// Create inserts q and fills in its id and timestamps.
func (r *QuoteRepo) Create(ctx context.Context, q *model.Quote) error {
	if q.Features == nil {
		q.Features = []string{}
	}
	features, err := json.Marshal(q.Features)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO quotes (project_type, features, budget, timeline, company, email, phone, description,
			estimated_price, user_id, has_account, status, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		q.ProjectType, string(features), q.Budget, q.Timeline, q.Company, q.Email, q.Phone, q.Description,
		q.EstimatedPrice, q.UserID, q.HasAccount, string(q.Status), now, now)
	if err != nil {
		return err
	}
	if q.ID, err = lastID(res); err != nil {
		return err
	}
	q.CreatedAt, q.UpdatedAt = now, now
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id uint64) (*model.Quote, error) {
	q, err := scanQuote(r.DB.QueryRowContext(ctx, "SELECT "+quoteColumns+" FROM quotes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// List returns quotes newest first, optionally restricted to one account.
func (r *QuoteRepo) List(ctx context.Context, userID *uint64) ([]*model.Quote, error) {
	var where sq.Sqlizer
	if userID != nil {
		where = sq.Eq{"user_id": *userID}
	}
	return r.list(ctx, where)
}

// ListForRequester returns the quotes linked to the account plus the
// unlinked quotes sent from its email address.
func (r *QuoteRepo) ListForRequester(ctx context.Context, userID uint64, email string) ([]*model.Quote, error) {
	return r.list(ctx, sq.Or{
		sq.Eq{"user_id": userID},
		sq.And{sq.Eq{"user_id": nil}, sq.Eq{"email": email}},
	})
}

func (r *QuoteRepo) list(ctx context.Context, where sq.Sqlizer) ([]*model.Quote, error) {
	b := sq.Select(quoteColumns).From("quotes").OrderBy("created_at DESC", "id DESC")
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SetStatus overwrites the status column.
func (r *QuoteRepo) SetStatus(ctx context.Context, id uint64, status model.QuoteStatus) error {
	return updateByID(ctx, r.DB, "quotes", id, map[string]interface{}{"status": string(status)})
}

// SaveAdminResponse records an admin proposal and moves the quote to sent.
func (r *QuoteRepo) SaveAdminResponse(ctx context.Context, id uint64, text string, price float64, timeline string, at time.Time) error {
	return updateByID(ctx, r.DB, "quotes", id, map[string]interface{}{
		"admin_response": text,
		"admin_price":    price,
		"admin_timeline": timeline,
		"responded_at":   at,
		"status":         string(model.QuoteSent),
	})
}

// SaveClientResponse records the requester's verdict. The update only
// applies while the quote is still in sent; ErrNotFound is returned when
// no row matched so a concurrent response cannot overwrite the first one.
func (r *QuoteRepo) SaveClientResponse(ctx context.Context, id uint64, resp model.ClientResponse, message string, at time.Time) error {
	q, args, err := sq.Update("quotes").
		Set("client_response", string(resp)).
		Set("client_message", message).
		Set("client_response_at", at).
		Set("status", string(resp.Status())).
		Where(sq.Eq{"id": id, "status": string(model.QuoteSent)}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuoteRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.DB, "quotes", id)
}
