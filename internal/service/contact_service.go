package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

type ContactService struct {
	contacts ContactStore
	notify   *Notifier
}

func NewContactService(contacts ContactStore, notify *Notifier) *ContactService {
	return &ContactService{contacts: contacts, notify: notify}
}

type ContactInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Subject string
	Message string
}

// Submit stores a contact form message and forwards it to the admin
// mailbox. The bool reports whether the mail went out.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*model.Contact, bool, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, false, invalidInput("name, subject and message are required")
	}
	if !validEmail(in.Email) {
		return nil, false, invalidInput("A valid email is required")
	}
	c := &model.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: in.Company,
		Phone:   in.Phone,
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
		Status:  model.ContactNew,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, false, err
	}
	return c, s.notify.ContactSubmitted(ctx, c), nil
}

func (s *ContactService) List(ctx context.Context) ([]*model.Contact, error) {
	return s.contacts.List(ctx)
}

// SetStatus overwrites the triage status with any known value.
func (s *ContactService) SetStatus(ctx context.Context, id uint64, raw string) (*model.Contact, error) {
	status, ok := model.ParseContactStatus(raw)
	if !ok {
		return nil, invalidInput("status must be one of %s", strings.Join(model.ContactStatusNames(), ", "))
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.contacts.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *ContactService) get(ctx context.Context, id uint64) (*model.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Contact")
	}
	return c, err
}

func (s *ContactService) Delete(ctx context.Context, id uint64) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Contact")
		}
		return err
	}
	return nil
}
