package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/mailer"
	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

// memDB backs the in-memory stores below. Each store type is a view on it,
// so the stats store sees what the others wrote.
type memDB struct {
	mu       sync.Mutex
	next     uint64
	users    map[uint64]*model.User
	orders   map[uint64]*model.Order
	quotes   map[uint64]*model.Quote
	contacts map[uint64]*model.Contact
	messages map[uint64]*model.PrivateMessage
	content  map[uint64]*model.SiteContent
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[uint64]*model.User{},
		orders:   map[uint64]*model.Order{},
		quotes:   map[uint64]*model.Quote{},
		contacts: map[uint64]*model.Contact{},
		messages: map[uint64]*model.PrivateMessage{},
		content:  map[uint64]*model.SiteContent{},
	}
}

func (db *memDB) id() uint64 {
	db.next++
	return db.next
}

func sortedIDs[T any](m map[uint64]T) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memUsers struct{ *memDB }

func (s memUsers) emailTaken(email string, except uint64) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if s.emailTaken(u.Email, 0) {
		return repository.ErrEmailExists
	}
	if u.Role == "" {
		u.Role = model.RoleMember
	}
	u.ID = s.id()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) FirstAdmin(_ context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sortedIDs(s.users) {
		if s.users[id].Role == model.RoleAdmin {
			cp := *s.users[id]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) List(_ context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.User{}
	for _, id := range sortedIDs(s.users) {
		cp := *s.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s memUsers) Update(_ context.Context, id uint64, p repository.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if s.emailTaken(email, id) {
			return repository.ErrEmailExists
		}
		u.Email = email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	return nil
}

// Delete mirrors the repository cascade.
func (s memUsers) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for mid, m := range s.messages {
		if m.SenderID == id || m.RecipientID == id {
			delete(s.messages, mid)
		}
	}
	for oid, o := range s.orders {
		if o.UserID == id {
			delete(s.orders, oid)
		}
	}
	for _, q := range s.quotes {
		if q.UserID != nil && *q.UserID == id {
			q.UserID = nil
			q.HasAccount = false
		}
	}
	delete(s.users, id)
	return nil
}

type memOrders struct{ *memDB }

func (s memOrders) Create(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.id()
	o.CreatedAt, o.UpdatedAt = time.Now(), time.Now()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s memOrders) GetByID(_ context.Context, id uint64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s memOrders) List(_ context.Context, userID *uint64) ([]*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Order{}
	for _, id := range sortedIDs(s.orders) {
		o := s.orders[id]
		if userID == nil || o.UserID == *userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memOrders) Update(_ context.Context, id uint64, p repository.OrderPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Price != nil {
		o.Price = *p.Price
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Progress != nil {
		o.Progress = *p.Progress
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		o.CompletedAt = &t
	}
	return nil
}

func (s memOrders) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type memQuotes struct{ *memDB }

func copyQuote(q *model.Quote) *model.Quote {
	cp := *q
	cp.Features = append([]string{}, q.Features...)
	return &cp
}

func (s memQuotes) Create(_ context.Context, q *model.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.id()
	q.CreatedAt, q.UpdatedAt = time.Now(), time.Now()
	s.quotes[q.ID] = copyQuote(q)
	return nil
}

func (s memQuotes) GetByID(_ context.Context, id uint64) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyQuote(q), nil
}

func (s memQuotes) filter(keep func(*model.Quote) bool) []*model.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Quote{}
	for _, id := range sortedIDs(s.quotes) {
		if q := s.quotes[id]; keep(q) {
			out = append(out, copyQuote(q))
		}
	}
	return out
}

func (s memQuotes) List(_ context.Context, userID *uint64) ([]*model.Quote, error) {
	return s.filter(func(q *model.Quote) bool {
		return userID == nil || (q.UserID != nil && *q.UserID == *userID)
	}), nil
}

func (s memQuotes) ListForRequester(_ context.Context, userID uint64, email string) ([]*model.Quote, error) {
	return s.filter(func(q *model.Quote) bool {
		if q.UserID != nil {
			return *q.UserID == userID
		}
		return strings.EqualFold(q.Email, email)
	}), nil
}

func (s memQuotes) SetStatus(_ context.Context, id uint64, status model.QuoteStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quotes[id]; ok {
		q.Status = status
	}
	return nil
}

func (s memQuotes) SaveAdminResponse(_ context.Context, id uint64, text string, price float64, timeline string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quotes[id]; ok {
		q.AdminResponse, q.AdminPrice, q.AdminTimeline, q.RespondedAt = &text, &price, &timeline, &at
		q.Status = model.QuoteSent
	}
	return nil
}

func (s memQuotes) SaveClientResponse(_ context.Context, id uint64, resp model.ClientResponse, message string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok || q.Status != model.QuoteSent {
		return repository.ErrNotFound
	}
	r := string(resp)
	q.ClientResponse, q.ClientMessage, q.ClientResponseAt = &r, &message, &at
	q.Status = resp.Status()
	return nil
}

func (s memQuotes) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.quotes, id)
	return nil
}

type memContacts struct{ *memDB }

func (s memContacts) Create(_ context.Context, c *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = time.Now()
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s memContacts) GetByID(_ context.Context, id uint64) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s memContacts) List(_ context.Context) ([]*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Contact{}
	for _, id := range sortedIDs(s.contacts) {
		cp := *s.contacts[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s memContacts) SetStatus(_ context.Context, id uint64, status model.ContactStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.contacts[id]; ok {
		c.Status = status
	}
	return nil
}

func (s memContacts) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

type memMessages struct{ *memDB }

func (s memMessages) Create(_ context.Context, m *model.PrivateMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.CreatedAt = time.Now()
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s memMessages) GetByID(_ context.Context, id uint64) (*model.PrivateMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s memMessages) filter(keep func(*model.PrivateMessage) bool) []*model.PrivateMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.PrivateMessage{}
	for _, id := range sortedIDs(s.messages) {
		if m := s.messages[id]; keep(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

func (s memMessages) ListAll(_ context.Context) ([]*model.PrivateMessage, error) {
	return s.filter(func(*model.PrivateMessage) bool { return true }), nil
}

func (s memMessages) ListSent(_ context.Context, senderID uint64) ([]*model.PrivateMessage, error) {
	return s.filter(func(m *model.PrivateMessage) bool { return m.SenderID == senderID }), nil
}

func (s memMessages) ListReceived(_ context.Context, recipientID uint64) ([]*model.PrivateMessage, error) {
	return s.filter(func(m *model.PrivateMessage) bool { return m.RecipientID == recipientID }), nil
}

func (s memMessages) MarkRead(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.messages[id]; ok {
		m.IsRead = true
	}
	return nil
}

func (s memMessages) CountUnread(_ context.Context, recipientID uint64) (int64, error) {
	return int64(len(s.filter(func(m *model.PrivateMessage) bool {
		return m.RecipientID == recipientID && !m.IsRead
	}))), nil
}

type memContent struct{ *memDB }

func (s memContent) Create(_ context.Context, c *model.SiteContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	cp := *c
	s.content[c.ID] = &cp
	return nil
}

func (s memContent) GetByID(_ context.Context, id uint64) (*model.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s memContent) List(_ context.Context, page string, activeOnly bool) ([]*model.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.SiteContent{}
	for _, id := range sortedIDs(s.content) {
		c := s.content[id]
		if (page == "" || c.PageName == page) && (!activeOnly || c.IsActive) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memContent) Update(_ context.Context, id uint64, p repository.ContentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return nil
	}
	if p.PageName != nil {
		c.PageName = *p.PageName
	}
	if p.SectionName != nil {
		c.SectionName = *p.SectionName
	}
	if p.ContentType != nil {
		c.ContentType = *p.ContentType
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	return nil
}

func (s memContent) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.content, id)
	return nil
}

type memStats struct{ *memDB }

func (s memStats) CountUsers(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s memStats) CountByStatus(_ context.Context, table string, userID *uint64) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	switch table {
	case repository.TableOrders:
		for _, o := range s.orders {
			if userID == nil || o.UserID == *userID {
				out[string(o.Status)]++
			}
		}
	case repository.TableQuotes:
		for _, q := range s.quotes {
			out[string(q.Status)]++
		}
	case repository.TableContacts:
		for _, c := range s.contacts {
			out[string(c.Status)]++
		}
	}
	return out, nil
}

func (s memStats) SumOrderPrice(_ context.Context, statuses []string, userID *uint64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, o := range s.orders {
		if userID != nil && o.UserID != *userID {
			continue
		}
		for _, st := range statuses {
			if string(o.Status) == st {
				sum += o.Price
			}
		}
	}
	return sum, nil
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// newTestNotifier returns a notifier whose mailer answers every Send with
// sendErr.
func newTestNotifier(t *testing.T, sendErr error) (*Notifier, *mockMailer) {
	t.Helper()
	m := new(mockMailer)
	m.On("Send", mock.Anything, mock.Anything).Return(sendErr)
	n, err := NewNotifier(m, logger.Nop(), "admin@buildrr.test", "https://buildrr.test/dashboard")
	require.NoError(t, err)
	return n, m
}

// sentTo returns the messages the mailer was asked to deliver.
func sentTo(m *mockMailer) []mailer.Message {
	var out []mailer.Message
	for _, call := range m.Calls {
		if call.Method == "Send" {
			out = append(out, call.Arguments.Get(1).(mailer.Message))
		}
	}
	return out
}
