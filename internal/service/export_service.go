package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

// Export kinds.
const (
	ExportUsers    = "users"
	ExportOrders   = "orders"
	ExportQuotes   = "quotes"
	ExportContacts = "contacts"
)

var ExportKinds = []string{ExportUsers, ExportOrders, ExportQuotes, ExportContacts}

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportService renders stored rows as CSV.
type ExportService struct {
	users    UserStore
	orders   OrderStore
	quotes   QuoteStore
	contacts ContactStore
	now      func() time.Time
}

func NewExportService(users UserStore, orders OrderStore, quotes QuoteStore, contacts ContactStore) *ExportService {
	return &ExportService{users: users, orders: orders, quotes: quotes, contacts: contacts, now: time.Now}
}

// Export is one rendered CSV document.
type Export struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

func (s *ExportService) rows(ctx context.Context, kind string) ([][]string, error) {
	id := func(v uint64) string { return strconv.FormatUint(v, 10) }
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	at := func(t time.Time) string { return t.UTC().Format(exportTimeLayout) }

	switch kind {
	case ExportUsers:
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		head := []string{"ID", "First name", "Last name", "Email", "Company", "Phone", "Role", "Active", "Created at"}
		return append([][]string{head}, lo.Map(users, func(u *model.User, _ int) []string {
			return []string{id(u.ID), u.FirstName, u.LastName, u.Email, u.Company, u.Phone,
				string(u.Role), strconv.FormatBool(u.IsActive), at(u.CreatedAt)}
		})...), nil
	case ExportOrders:
		orders, err := s.orders.List(ctx, nil)
		if err != nil {
			return nil, err
		}
		head := []string{"ID", "Title", "Type", "Status", "Price", "Progress", "User", "Created at"}
		return append([][]string{head}, lo.Map(orders, func(o *model.Order, _ int) []string {
			return []string{o.Code, o.Title, o.Type, string(o.Status), num(o.Price),
				strconv.Itoa(o.Progress), id(o.UserID), at(o.CreatedAt)}
		})...), nil
	case ExportQuotes:
		quotes, err := s.quotes.List(ctx, nil)
		if err != nil {
			return nil, err
		}
		head := []string{"ID", "Project type", "Company", "Email", "Estimated price", "Status", "Created at"}
		return append([][]string{head}, lo.Map(quotes, func(q *model.Quote, _ int) []string {
			return []string{id(q.ID), q.ProjectType, q.Company, q.Email, num(q.EstimatedPrice),
				string(q.Status), at(q.CreatedAt)}
		})...), nil
	case ExportContacts:
		contacts, err := s.contacts.List(ctx)
		if err != nil {
			return nil, err
		}
		head := []string{"ID", "Name", "Email", "Company", "Subject", "Status", "Created at"}
		return append([][]string{head}, lo.Map(contacts, func(c *model.Contact, _ int) []string {
			return []string{id(c.ID), c.Name, c.Email, c.Company, c.Subject, string(c.Status), at(c.CreatedAt)}
		})...), nil
	}
	return nil, invalidInput("Invalid data type")
}

// Export projects every row of one entity kind into CSV. Unknown kinds are
// InvalidInput.
func (s *ExportService) Export(ctx context.Context, kind string) (*Export, error) {
	rows, err := s.rows(ctx, kind)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return &Export{
		Data:     buf.String(),
		Filename: kind + "_" + s.now().Format("20060102_150405") + ".csv",
	}, nil
}
