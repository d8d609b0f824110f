package service

import (
	"context"
	"time"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

// The store interfaces are what the services need from the repository
// layer. *repository.XRepo satisfies each of them.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	FirstAdmin(ctx context.Context) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, id uint64, p repository.UserPatch) error
	Delete(ctx context.Context, id uint64) error
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	List(ctx context.Context, userID *uint64) ([]*model.Order, error)
	Update(ctx context.Context, id uint64, p repository.OrderPatch) error
	Delete(ctx context.Context, id uint64) error
}

type QuoteStore interface {
	Create(ctx context.Context, q *model.Quote) error
	GetByID(ctx context.Context, id uint64) (*model.Quote, error)
	List(ctx context.Context, userID *uint64) ([]*model.Quote, error)
	ListForRequester(ctx context.Context, userID uint64, email string) ([]*model.Quote, error)
	SetStatus(ctx context.Context, id uint64, status model.QuoteStatus) error
	SaveAdminResponse(ctx context.Context, id uint64, text string, price float64, timeline string, at time.Time) error
	SaveClientResponse(ctx context.Context, id uint64, resp model.ClientResponse, message string, at time.Time) error
	Delete(ctx context.Context, id uint64) error
}

type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id uint64) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	SetStatus(ctx context.Context, id uint64, status model.ContactStatus) error
	Delete(ctx context.Context, id uint64) error
}

type MessageStore interface {
	Create(ctx context.Context, m *model.PrivateMessage) error
	GetByID(ctx context.Context, id uint64) (*model.PrivateMessage, error)
	ListAll(ctx context.Context) ([]*model.PrivateMessage, error)
	ListSent(ctx context.Context, senderID uint64) ([]*model.PrivateMessage, error)
	ListReceived(ctx context.Context, recipientID uint64) ([]*model.PrivateMessage, error)
	MarkRead(ctx context.Context, id uint64) error
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
}

type ContentStore interface {
	Create(ctx context.Context, c *model.SiteContent) error
	GetByID(ctx context.Context, id uint64) (*model.SiteContent, error)
	List(ctx context.Context, page string, activeOnly bool) ([]*model.SiteContent, error)
	Update(ctx context.Context, id uint64, p repository.ContentPatch) error
	Delete(ctx context.Context, id uint64) error
}

type StatsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, table string, userID *uint64) (map[string]int64, error)
	SumOrderPrice(ctx context.Context, statuses []string, userID *uint64) (float64, error)
}

var (
	_ UserStore    = (*repository.UserRepo)(nil)
	_ OrderStore   = (*repository.OrderRepo)(nil)
	_ QuoteStore   = (*repository.QuoteRepo)(nil)
	_ ContactStore = (*repository.ContactRepo)(nil)
	_ MessageStore = (*repository.MessageRepo)(nil)
	_ ContentStore = (*repository.ContentRepo)(nil)
	_ StatsStore   = (*repository.StatsRepo)(nil)
)
