package handler

import (
	"context"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// The handler side views of the services. Each is satisfied by the
// matching type in package service.

type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	UpdateProfile(ctx context.Context, u *model.User, in service.ProfileInput) (*model.User, error)
	DeleteAccount(ctx context.Context, u *model.User, password string) error
}

type Quotes interface {
	Submit(ctx context.Context, in service.QuoteInput, requester *model.User) (*model.Quote, bool, error)
	List(ctx context.Context) ([]*model.Quote, error)
	ListForUser(ctx context.Context, u *model.User) ([]*model.Quote, error)
	AdminRespond(ctx context.Context, id uint64, in service.AdminResponseInput) (*model.Quote, bool, error)
	ClientRespond(ctx context.Context, requester *model.User, id uint64, response, message string) (*model.Quote, bool, error)
	SetStatus(ctx context.Context, id uint64, raw string) (*model.Quote, error)
	Delete(ctx context.Context, id uint64) error
}

type Contacts interface {
	Submit(ctx context.Context, in service.ContactInput) (*model.Contact, bool, error)
	List(ctx context.Context) ([]*model.Contact, error)
	SetStatus(ctx context.Context, id uint64, raw string) (*model.Contact, error)
	Delete(ctx context.Context, id uint64) error
}

type Orders interface {
	Create(ctx context.Context, in service.OrderInput) (*model.Order, error)
	Update(ctx context.Context, id uint64, in service.OrderUpdate) (*model.Order, error)
	List(ctx context.Context, userID *uint64) ([]*model.Order, error)
	Delete(ctx context.Context, id uint64) error
}

type Messages interface {
	Inbox(ctx context.Context, userID uint64) (*service.Inbox, error)
	ListAll(ctx context.Context) ([]*model.PrivateMessage, error)
	SendToAdmin(ctx context.Context, sender *model.User, subject, body string) (*model.PrivateMessage, error)
	Send(ctx context.Context, sender *model.User, recipientID uint64, subject, body string) (*model.PrivateMessage, error)
	MarkRead(ctx context.Context, actor *model.User, id uint64) error
}

type Content interface {
	Published(ctx context.Context, page string) ([]*model.SiteContent, error)
	List(ctx context.Context) ([]*model.SiteContent, error)
	Create(ctx context.Context, in service.ContentInput) (*model.SiteContent, error)
	Update(ctx context.Context, id uint64, in service.ContentUpdate) (*model.SiteContent, error)
	Delete(ctx context.Context, id uint64) error
}

type Users interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	CreateUser(ctx context.Context, in service.AdminUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint64, in service.AdminUserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, id uint64) error
}

type Stats interface {
	Admin(ctx context.Context, admin *model.User) (*model.AdminStats, error)
	User(ctx context.Context, u *model.User) (*model.UserStats, error)
}

type Exporter interface {
	Export(ctx context.Context, kind string) (*service.Export, error)
}

// CachePurger drops cached public content after an admin write.
type CachePurger interface {
	Purge(ctx context.Context) error
}

var (
	_ Accounts = (*service.AccountService)(nil)
	_ Quotes   = (*service.QuoteService)(nil)
	_ Contacts = (*service.ContactService)(nil)
	_ Orders   = (*service.OrderService)(nil)
	_ Messages = (*service.MessageService)(nil)
	_ Content  = (*service.ContentService)(nil)
	_ Users    = (*service.AdminService)(nil)
	_ Stats    = (*service.StatsService)(nil)
	_ Exporter = (*service.ExportService)(nil)
)
