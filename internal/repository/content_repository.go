package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

const contentColumns = "id, page_name, section_name, content_type, content, is_active, created_at, updated_at"

type ContentRepo struct{ DB *sql.DB }

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{DB: db} }

type ContentPatch struct {
	PageName    *string
	SectionName *string
	ContentType *string
	Content     *string
	IsActive    *bool
}

func (p ContentPatch) set() map[string]interface{} {
	m := map[string]interface{}{}
	if p.PageName != nil {
		m["page_name"] = *p.PageName
	}
	if p.SectionName != nil {
		m["section_name"] = *p.SectionName
	}
	if p.ContentType != nil {
		m["content_type"] = *p.ContentType
	}
	if p.Content != nil {
		m["content"] = *p.Content
	}
	if p.IsActive != nil {
		m["is_active"] = *p.IsActive
	}
	return m
}

func scanContent(row interface{ Scan(...interface{}) error }) (*model.SiteContent, error) {
	var c model.SiteContent
	if err := row.Scan(&c.ID, &c.PageName, &c.SectionName, &c.ContentType, &c.Content,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepo) Create(ctx context.Context, c *model.SiteContent) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO site_content (page_name, section_name, content_type, content, is_active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		c.PageName, c.SectionName, c.ContentType, c.Content, c.IsActive, now, now)
	if err != nil {
		return err
	}
	if c.ID, err = lastID(res); err != nil {
		return err
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *ContentRepo) GetByID(ctx context.Context, id uint64) (*model.SiteContent, error) {
	c, err := scanContent(r.DB.QueryRowContext(ctx, "SELECT "+contentColumns+" FROM site_content WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List returns content blocks ordered by page and section. An empty page
// matches every page.
func (r *ContentRepo) List(ctx context.Context, page string, activeOnly bool) ([]*model.SiteContent, error) {
	b := sq.Select(contentColumns).From("site_content").OrderBy("page_name", "section_name", "id")
	if page != "" {
		b = b.Where(sq.Eq{"page_name": page})
	}
	if activeOnly {
		b = b.Where(sq.Eq{"is_active": true})
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

	out := []*model.SiteContent{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContentRepo) Update(ctx context.Context, id uint64, p ContentPatch) error {
	return updateByID(ctx, r.DB, "site_content", id, p.set())
}

func (r *ContentRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.DB, "site_content", id)
}
