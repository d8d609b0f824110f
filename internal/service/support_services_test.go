package service

import (
	"context"
	"encoding/csv"
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

func TestContactSubmit(t *testing.T) {
	db := newMemDB()
	n, m := newTestNotifier(t, nil)
	svc := NewContactService(memContacts{db}, n)
	ctx := context.Background()

	c, sent, err := svc.Submit(ctx, ContactInput{Name: "Bob", Email: "bob@example.com", Subject: "Hello", Message: "Hi there"})
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, model.ContactNew, c.Status)
	assert.Equal(t, "New contact message - Hello", sentTo(m)[0].Subject)
	assert.Contains(t, sentTo(m)[0].Body, "bob@example.com")

	_, _, err = svc.Submit(ctx, ContactInput{Name: "Bob", Email: "bad", Subject: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := svc.SetStatus(ctx, c.ID, "archived")
	require.NoError(t, err)
	assert.Equal(t, model.ContactArchived, got.Status)
	_, err = svc.SetStatus(ctx, c.ID, "closed")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrNotFound)
}

func TestMessages_MemberToAdminAndBack(t *testing.T) {
	db := newMemDB()
	svc := NewMessageService(memMessages{db}, memUsers{db})
	ctx := context.Background()
	member := addUser(t, db, "ada@example.com", model.RoleMember)

	_, err := svc.SendToAdmin(ctx, member, "Hi", "Question")
	assert.ErrorIs(t, err, ErrNotFound)

	admin := addUser(t, db, "admin@example.com", model.RoleAdmin)
	msg, err := svc.SendToAdmin(ctx, member, "Hi", "Question")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, msg.RecipientID)

	reply, err := svc.Send(ctx, admin, member.ID, "Re: Hi", "Answer")
	require.NoError(t, err)
	_, err = svc.Send(ctx, admin, 999, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Send(ctx, admin, member.ID, "", "y")
	assert.ErrorIs(t, err, ErrInvalidInput)

	inbox, err := svc.Inbox(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, inbox.Sent, 1)
	assert.Len(t, inbox.Received, 1)

	// A member cannot touch a message addressed to someone else.
	assert.ErrorIs(t, svc.MarkRead(ctx, member, msg.ID), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, member, reply.ID))
	require.NoError(t, svc.MarkRead(ctx, member, reply.ID))
	assert.True(t, db.messages[reply.ID].IsRead)
	require.NoError(t, svc.MarkRead(ctx, admin, msg.ID))
}

func TestContent(t *testing.T) {
	db := newMemDB()
	svc := NewContentService(memContent{db})
	ctx := context.Background()

	hero, err := svc.Create(ctx, ContentInput{PageName: "home", SectionName: "hero", ContentType: "text", Content: "Welcome"})
	require.NoError(t, err)
	assert.True(t, hero.IsActive)

	off := false
	_, err = svc.Create(ctx, ContentInput{PageName: "home", SectionName: "draft", ContentType: "text", IsActive: &off})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ContentInput{PageName: "home"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	published, err := svc.Published(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, published, 1)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	text := "Hello"
	updated, err := svc.Update(ctx, hero.ID, ContentUpdate{Content: &text})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Content)
	empty := " "
	_, err = svc.Update(ctx, hero.ID, ContentUpdate{PageName: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Update(ctx, 999, ContentUpdate{Content: &text})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminUsers(t *testing.T) {
	db := newMemDB()
	svc := NewAdminService(memUsers{db}, bcrypt.MinCost)
	ctx := context.Background()
	admin := addUser(t, db, "admin@example.com", model.RoleAdmin)

	u, err := svc.CreateUser(ctx, AdminUserInput{RegisterInput: RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.co", Password: "p"}})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, u.Role)

	_, err = svc.CreateUser(ctx, AdminUserInput{RegisterInput: RegisterInput{FirstName: "A", LastName: "B", Email: "c@d.co", Password: "p"}, Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	role := "admin"
	inactive := false
	u, err = svc.UpdateUser(ctx, u.ID, AdminUserUpdate{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.False(t, u.IsActive)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, admin.ID), ErrInvalidInput)
	require.NoError(t, svc.DeleteUser(ctx, admin, u.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, u.ID), ErrNotFound)
	_, err = svc.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminStats_TotalsEqualPerStatusSums(t *testing.T) {
	db := newMemDB()
	svc := NewStatsService(memStats{db}, memMessages{db})
	ctx := context.Background()
	admin := addUser(t, db, "admin@example.com", model.RoleAdmin)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 40; i++ {
		o := &model.Order{UserID: admin.ID, Status: model.OrderStatuses[rng.Intn(len(model.OrderStatuses))], Price: float64(rng.Intn(1000))}
		require.NoError(t, memOrders{db}.Create(ctx, o))
		q := &model.Quote{Status: model.QuoteStatuses[rng.Intn(len(model.QuoteStatuses))]}
		require.NoError(t, memQuotes{db}.Create(ctx, q))
		c := &model.Contact{Status: model.ContactStatuses[rng.Intn(len(model.ContactStatuses))]}
		require.NoError(t, memContacts{db}.Create(ctx, c))
	}
	// A status written before the enumeration existed still counts.
	require.NoError(t, memOrders{db}.Create(ctx, &model.Order{UserID: admin.ID, Status: "legacy"}))

	st, err := svc.Admin(ctx, admin)
	require.NoError(t, err)

	sum := func(m map[string]int64) (n int64) {
		for _, v := range m {
			n += v
		}
		return n
	}
	assert.Equal(t, int64(41), st.TotalOrders)
	assert.Equal(t, st.TotalOrders, sum(st.OrdersByStatus))
	assert.Equal(t, st.TotalQuotes, sum(st.QuotesByStatus))
	assert.Equal(t, st.TotalContacts, sum(st.ContactsByStatus))
	for _, name := range model.QuoteStatusNames() {
		assert.Contains(t, st.QuotesByStatus, name)
	}
	assert.Equal(t, int64(1), st.TotalUsers)
}

func TestUserStats(t *testing.T) {
	db := newMemDB()
	svc := NewStatsService(memStats{db}, memMessages{db})
	ctx := context.Background()
	u := addUser(t, db, "ada@example.com", model.RoleMember)
	other := addUser(t, db, "bob@example.com", model.RoleMember)

	for _, o := range []*model.Order{
		{UserID: u.ID, Status: model.OrderCompleted, Price: 100},
		{UserID: u.ID, Status: model.OrderCompleted, Price: 250},
		{UserID: u.ID, Status: model.OrderPending, Price: 999},
		{UserID: other.ID, Status: model.OrderCompleted, Price: 5000},
	} {
		require.NoError(t, memOrders{db}.Create(ctx, o))
	}
	require.NoError(t, memMessages{db}.Create(ctx, &model.PrivateMessage{SenderID: other.ID, RecipientID: u.ID}))

	st, err := svc.User(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalOrders)
	assert.Equal(t, int64(2), st.CompletedOrders)
	assert.Equal(t, int64(1), st.PendingOrders)
	assert.Equal(t, 350.0, st.TotalSpent)
	assert.Equal(t, int64(1), st.UnreadMessages)
}

func TestExport(t *testing.T) {
	db := newMemDB()
	svc := NewExportService(memUsers{db}, memOrders{db}, memQuotes{db}, memContacts{db})
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 30, 15, 0, time.UTC) }
	ctx := context.Background()
	addUser(t, db, "ada@example.com", model.RoleMember)
	require.NoError(t, memContacts{db}.Create(ctx, &model.Contact{Name: "Doe, John", Email: "j@d.co", Subject: "Hi", Status: model.ContactNew}))

	out, err := svc.Export(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "users_20250602_093015.csv", out.Filename)
	records, err := csv.NewReader(strings.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Email", records[0][3])
	assert.Equal(t, "ada@example.com", records[1][3])

	out, err = svc.Export(ctx, "contacts")
	require.NoError(t, err)
	records, err = csv.NewReader(strings.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Doe, John", records[1][1])

	for _, kind := range ExportKinds {
		out, err := svc.Export(ctx, kind)
		require.NoError(t, err, kind)
		assert.Regexp(t, regexp.MustCompile(`^`+kind+`_\d{8}_\d{6}\.csv$`), out.Filename)
	}

	_, err = svc.Export(ctx, "payments")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
