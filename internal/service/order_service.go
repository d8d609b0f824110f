package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
	"github.com/iliyamo/buildrr-backend/internal/utils"
)

// OrderService is the admin side of order management.
type OrderService struct {
	orders  OrderStore
	users   UserStore
	now     func() time.Time
	newCode func() string
}

func NewOrderService(orders OrderStore, users UserStore) *OrderService {
	return &OrderService{orders: orders, users: users, now: time.Now, newCode: utils.NewOrderCode}
}

type OrderInput struct {
	Title       string
	Type        string
	Status      string
	Price       float64
	Description string
	Progress    int
	UserID      uint64
}

func parseOrderStatus(raw string) (model.OrderStatus, error) {
	st, ok := model.ParseOrderStatus(raw)
	if !ok {
		return "", invalidInput("status must be one of %s", strings.Join(model.OrderStatusNames(), ", "))
	}
	return st, nil
}

func validProgress(p int) bool { return p >= 0 && p <= 100 }

// Create stores an order for an existing account under a fresh 8 character
// code.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, invalidInput("title and type are required")
	}
	if in.UserID == 0 {
		return nil, invalidInput("userId is required")
	}
	if !validAmount(in.Price) {
		return nil, invalidInput("price must be a non-negative number")
	}
	if !validProgress(in.Progress) {
		return nil, invalidInput("progress must be between 0 and 100")
	}
	status := model.OrderPending
	if in.Status != "" {
		st, err := parseOrderStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidInput("User %d does not exist", in.UserID)
		}
		return nil, err
	}

	o := &model.Order{
		Code:        s.newCode(),
		Title:       strings.TrimSpace(in.Title),
		Type:        strings.TrimSpace(in.Type),
		Status:      status,
		Price:       in.Price,
		Description: in.Description,
		Progress:    in.Progress,
		UserID:      in.UserID,
	}
	if status == model.OrderCompleted {
		t := s.now().UTC()
		o.CompletedAt = &t
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

type OrderUpdate struct {
	Title       *string
	Type        *string
	Status      *string
	Price       *float64
	Description *string
	Progress    *int
}

// Update applies a partial change. Moving to completed stamps the
// completion time; any other status leaves it as it was.
func (s *OrderService) Update(ctx context.Context, id uint64, in OrderUpdate) (*model.Order, error) {
	patch := repository.OrderPatch{
		Title:       in.Title,
		Type:        in.Type,
		Price:       in.Price,
		Description: in.Description,
		Progress:    in.Progress,
	}
	if in.Price != nil && !validAmount(*in.Price) {
		return nil, invalidInput("price must be a non-negative number")
	}
	if in.Progress != nil && !validProgress(*in.Progress) {
		return nil, invalidInput("progress must be between 0 and 100")
	}
	if in.Status != nil {
		st, err := parseOrderStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &st
		if st == model.OrderCompleted {
			t := s.now().UTC()
			patch.CompletedAt = &t
		}
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *OrderService) Get(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Order")
	}
	return o, err
}

// List returns every order when userID is nil, else that account's orders.
func (s *OrderService) List(ctx context.Context, userID *uint64) ([]*model.Order, error) {
	return s.orders.List(ctx, userID)
}

func (s *OrderService) Delete(ctx context.Context, id uint64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Order")
		}
		return err
	}
	return nil
}
