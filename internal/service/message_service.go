package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

// MessageService handles private messages between members and admins.
type MessageService struct {
	messages MessageStore
	users    UserStore
}

func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users}
}

// Inbox is a member's view of their conversation with the admins.
type Inbox struct {
	Sent     []*model.PrivateMessage `json:"sentMessages"`
	Received []*model.PrivateMessage `json:"receivedMessages"`
}

func (s *MessageService) Inbox(ctx context.Context, userID uint64) (*Inbox, error) {
	sent, err := s.messages.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.messages.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Inbox{Sent: sent, Received: received}, nil
}

func (s *MessageService) ListAll(ctx context.Context) ([]*model.PrivateMessage, error) {
	return s.messages.ListAll(ctx)
}

func (s *MessageService) create(ctx context.Context, from, to uint64, subject, body string) (*model.PrivateMessage, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, invalidInput("subject and message are required")
	}
	m := &model.PrivateMessage{
		Subject:     strings.TrimSpace(subject),
		Message:     body,
		SenderID:    from,
		RecipientID: to,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SendToAdmin addresses a member's message to the first admin account.
func (s *MessageService) SendToAdmin(ctx context.Context, sender *model.User, subject, body string) (*model.PrivateMessage, error) {
	admin, err := s.users.FirstAdmin(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "No admin found")
	}
	if err != nil {
		return nil, err
	}
	return s.create(ctx, sender.ID, admin.ID, subject, body)
}

// Send is the admin path: any existing account may be the recipient.
func (s *MessageService) Send(ctx context.Context, sender *model.User, recipientID uint64, subject, body string) (*model.PrivateMessage, error) {
	if recipientID == 0 {
		return nil, invalidInput("recipientId is required")
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Recipient")
		}
		return nil, err
	}
	return s.create(ctx, sender.ID, recipientID, subject, body)
}

// MarkRead flips the read flag. Members may only mark messages addressed
// to them; admins may mark any message. Repeating the call is harmless.
func (s *MessageService) MarkRead(ctx context.Context, actor *model.User, id uint64) error {
	m, err := s.messages.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Message")
	}
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && m.RecipientID != actor.ID {
		return notFound("Message")
	}
	if m.IsRead {
		return nil
	}
	return s.messages.MarkRead(ctx, id)
}
