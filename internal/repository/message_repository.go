package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const messageColumns = "id, subject, message, sender_id, recipient_id, is_read, created_at"

type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

func scanMessage(row interface{ Scan(...interface{}) error }) (*model.PrivateMessage, error) {
	var m model.PrivateMessage
	if err := row.Scan(&m.ID, &m.Subject, &m.Message, &m.SenderID, &m.RecipientID, &m.IsRead, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepo) Create(ctx context.Context, m *model.PrivateMessage) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO private_messages (subject, message, sender_id, recipient_id, is_read, created_at)
		 VALUES (?,?,?,?,?,?)`,
		m.Subject, m.Message, m.SenderID, m.RecipientID, m.IsRead, now)
	if err != nil {
		return err
	}
	if m.ID, err = lastID(res); err != nil {
		return err
	}
	m.CreatedAt = now
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (*model.PrivateMessage, error) {
	m, err := scanMessage(r.DB.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM private_messages WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *MessageRepo) list(ctx context.Context, where sq.Sqlizer) ([]*model.PrivateMessage, error) {
	b := sq.Select(messageColumns).From("private_messages").OrderBy("created_at DESC", "id DESC")
	if where != nil {
		b = b.Where(where)
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

	out := []*model.PrivateMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListAll returns every private message, newest first.
func (r *MessageRepo) ListAll(ctx context.Context) ([]*model.PrivateMessage, error) {
	return r.list(ctx, nil)
}

func (r *MessageRepo) ListSent(ctx context.Context, senderID uint64) ([]*model.PrivateMessage, error) {
	return r.list(ctx, sq.Eq{"sender_id": senderID})
}

func (r *MessageRepo) ListReceived(ctx context.Context, recipientID uint64) ([]*model.PrivateMessage, error) {
	return r.list(ctx, sq.Eq{"recipient_id": recipientID})
}

// MarkRead sets the read flag. Marking an already read message is a no-op.
func (r *MessageRepo) MarkRead(ctx context.Context, id uint64) error {
	return updateByID(ctx, r.DB, "private_messages", id, map[string]interface{}{"is_read": true})
}

// CountUnread counts unread messages addressed to recipientID.
func (r *MessageRepo) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM private_messages WHERE recipient_id = ? AND is_read = 0", recipientID).Scan(&n)
	return n, err
}
