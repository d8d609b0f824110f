package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

// QuoteService owns the quote lifecycle: submission, the admin proposal
// and the requester's answer.
type QuoteService struct {
	quotes QuoteStore
	notify *Notifier
	now    func() time.Time
}

func NewQuoteService(quotes QuoteStore, notify *Notifier) *QuoteService {
	return &QuoteService{quotes: quotes, notify: notify, now: time.Now}
}

type QuoteInput struct {
	ProjectType    string
	Features       []string
	Budget         string
	Timeline       string
	Company        string
	Email          string
	Phone          string
	Description    string
	EstimatedPrice float64
}

// Submit stores a new pending quote. requester is nil for guests; when set
// the quote is linked to that account. The bool reports whether the admin
// notification went out.
func (s *QuoteService) Submit(ctx context.Context, in QuoteInput, requester *model.User) (*model.Quote, bool, error) {
	if strings.TrimSpace(in.ProjectType) == "" {
		return nil, false, invalidInput("projectType is required")
	}
	if !validEmail(in.Email) {
		return nil, false, invalidInput("A valid email is required")
	}
	if !validAmount(in.EstimatedPrice) {
		return nil, false, invalidInput("estimatedPrice must be a non-negative number")
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	q := &model.Quote{
		ProjectType:    strings.TrimSpace(in.ProjectType),
		Features:       features,
		Budget:         in.Budget,
		Timeline:       in.Timeline,
		Company:        in.Company,
		Email:          strings.TrimSpace(in.Email),
		Phone:          in.Phone,
		Description:    in.Description,
		EstimatedPrice: in.EstimatedPrice,
		Status:         model.QuotePending,
	}
	if requester != nil {
		id := requester.ID
		q.UserID = &id
		q.HasAccount = true
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, false, err
	}
	return q, s.notify.QuoteSubmitted(ctx, q), nil
}

func (s *QuoteService) get(ctx context.Context, id uint64) (*model.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Quote")
	}
	return q, err
}

func (s *QuoteService) List(ctx context.Context) ([]*model.Quote, error) {
	return s.quotes.List(ctx, nil)
}

// ListForUser returns the quotes the account may answer: those linked to it
// and guest quotes sent from its email address.
func (s *QuoteService) ListForUser(ctx context.Context, u *model.User) ([]*model.Quote, error) {
	return s.quotes.ListForRequester(ctx, u.ID, u.Email)
}

// ownedBy reports whether u is the requester of q. A guest quote belongs to
// the account registered with the same email. Registration does not verify
// address ownership, so whoever holds an account for that email can read and
// answer the guest's quotes; linking is only as strong as that trust.
func ownedBy(q *model.Quote, u *model.User) bool {
	if q.UserID != nil {
		return *q.UserID == u.ID
	}
	return strings.EqualFold(q.Email, u.Email)
}

type AdminResponseInput struct {
	Response string
	Price    float64
	Timeline string
}

// AdminRespond attaches the admin proposal, moves the quote to sent from
// whatever status it had and mails the requester.
func (s *QuoteService) AdminRespond(ctx context.Context, id uint64, in AdminResponseInput) (*model.Quote, bool, error) {
	if strings.TrimSpace(in.Response) == "" || strings.TrimSpace(in.Timeline) == "" {
		return nil, false, invalidInput("response, price and timeline are required")
	}
	if !validAmount(in.Price) {
		return nil, false, invalidInput("price must be a non-negative number")
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, false, err
	}
	if err := s.quotes.SaveAdminResponse(ctx, id, in.Response, in.Price, in.Timeline, s.now().UTC()); err != nil {
		return nil, false, err
	}
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return q, s.notify.QuoteAnswered(ctx, q), nil
}

// ClientRespond records the requester's answer. Only the owning account
// sees the quote; the status must be exactly sent and the answer must be
// accepted or rejected.
func (s *QuoteService) ClientRespond(ctx context.Context, requester *model.User, id uint64, response, message string) (*model.Quote, bool, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !ownedBy(q, requester) {
		return nil, false, notFound("Quote")
	}
	if q.Status != model.QuoteSent {
		return nil, false, newError(ErrInvalidState, "Quote cannot be responded to in current status")
	}
	resp, ok := model.ParseClientResponse(response)
	if !ok {
		return nil, false, invalidInput("Invalid response type")
	}
	if !model.ClientCanMove(q.Status, resp.Status()) {
		return nil, false, newError(ErrInvalidState, "Quote cannot be responded to in current status")
	}
	err = s.quotes.SaveClientResponse(ctx, id, resp, message, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		// Another answer landed first.
		return nil, false, newError(ErrInvalidState, "Quote cannot be responded to in current status")
	}
	if err != nil {
		return nil, false, err
	}
	if q, err = s.get(ctx, id); err != nil {
		return nil, false, err
	}
	return q, s.notify.QuoteClientReplied(ctx, q), nil
}

// SetStatus lets an admin put the quote in any known status.
func (s *QuoteService) SetStatus(ctx context.Context, id uint64, raw string) (*model.Quote, error) {
	status, ok := model.ParseQuoteStatus(raw)
	if !ok {
		return nil, invalidInput("status must be one of %s", strings.Join(model.QuoteStatusNames(), ", "))
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.quotes.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *QuoteService) Delete(ctx context.Context, id uint64) error {
	if err := s.quotes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Quote")
		}
		return err
	}
	return nil
}
