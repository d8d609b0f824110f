package service

import (
	"context"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

type StatsService struct {
	stats    StatsStore
	messages MessageStore
}

func NewStatsService(stats StatsStore, messages MessageStore) *StatsService {
	return &StatsService{stats: stats, messages: messages}
}

// byStatus counts table rows per status with every known status present,
// so the map values always add up to the row count.
func (s *StatsService) byStatus(ctx context.Context, table string, known []string, userID *uint64) (map[string]int64, int64, error) {
	counts, err := s.stats.CountByStatus(ctx, table, userID)
	if err != nil {
		return nil, 0, err
	}
	if counts == nil {
		counts = map[string]int64{}
	}
	for _, k := range known {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return counts, total, nil
}

// Admin summarizes the whole data set. Unread messages are those addressed
// to the calling admin.
func (s *StatsService) Admin(ctx context.Context, admin *model.User) (*model.AdminStats, error) {
	var out model.AdminStats
	var err error

	if out.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, err
	}
	if out.OrdersByStatus, out.TotalOrders, err = s.byStatus(ctx, repository.TableOrders, model.OrderStatusNames(), nil); err != nil {
		return nil, err
	}
	if out.QuotesByStatus, out.TotalQuotes, err = s.byStatus(ctx, repository.TableQuotes, model.QuoteStatusNames(), nil); err != nil {
		return nil, err
	}
	if out.ContactsByStatus, out.TotalContacts, err = s.byStatus(ctx, repository.TableContacts, model.ContactStatusNames(), nil); err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = s.stats.SumOrderPrice(ctx, []string{string(model.OrderCompleted)}, nil); err != nil {
		return nil, err
	}
	if out.PendingRevenue, err = s.stats.SumOrderPrice(ctx, []string{string(model.OrderPending)}, nil); err != nil {
		return nil, err
	}
	if out.UnreadMessages, err = s.messages.CountUnread(ctx, admin.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

// User is the member dashboard summary. Total spent sums completed orders.
func (s *StatsService) User(ctx context.Context, u *model.User) (*model.UserStats, error) {
	id := u.ID
	counts, total, err := s.byStatus(ctx, repository.TableOrders, model.OrderStatusNames(), &id)
	if err != nil {
		return nil, err
	}
	out := model.UserStats{
		TotalOrders:      total,
		CompletedOrders:  counts[string(model.OrderCompleted)],
		PendingOrders:    counts[string(model.OrderPending)],
		InProgressOrders: counts[string(model.OrderInProgress)],
		CancelledOrders:  counts[string(model.OrderCancelled)],
	}
	if out.TotalSpent, err = s.stats.SumOrderPrice(ctx, []string{string(model.OrderCompleted)}, &id); err != nil {
		return nil, err
	}
	if out.UnreadMessages, err = s.messages.CountUnread(ctx, id); err != nil {
		return nil, err
	}
	return &out, nil
}
