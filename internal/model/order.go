package model

import "time"

// OrderStatus values are validated for membership only; admins may move an
// order between any two of them.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in-progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}

func ParseOrderStatus(raw string) (OrderStatus, bool) { return parseEnum(raw, OrderStatuses) }

func OrderStatusNames() []string { return enumStrings(OrderStatuses) }

// Order is a tracked unit of paid work. Code is the 8 character public
// identifier; it is generated at creation and is not checked for collisions.
type Order struct {
	ID          uint64      `json:"id"`
	Code        string      `json:"orderId"`
	Title       string      `json:"title"`
	Type        string      `json:"type"`
	Status      OrderStatus `json:"status"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Progress    int         `json:"progress"`
	UserID      uint64      `json:"userId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	CompletedAt *time.Time  `json:"completedAt"`
}
