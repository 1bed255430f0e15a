package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-cart-engine/src/infrastructure/log"
	"go-cart-engine/src/services/cart"
	"go-cart-engine/src/services/pricing"
)

var (
	// ErrEmptyOrder signals order creation from an empty line-item sequence.
	ErrEmptyOrder = errors.New("cannot create an order from no items")
	// ErrOrderNotFound signals an operation on an unknown order ID.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition signals an illegal status change.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// ParseStatus maps a request string onto a known status.
func ParseStatus(s string) (Status, bool) {
	for _, status := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Order is a point-in-time snapshot of a set of line items plus its
// totals. The snapshot never changes after creation; only Status and
// ConfirmedAt do.
type Order struct {
	ID          string          `json:"id"`
	Items       []cart.LineItem `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
}

// Statistics aggregates the order table: counts per status plus revenue
// over confirmed and completed orders.
type Statistics struct {
	TotalOrders  int             `json:"totalOrders"`
	ByStatus     map[Status]int  `json:"byStatus"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// OrderManager owns the order table for the session. Orders are derived
// from cart line-item snapshots handed in by the caller; the manager
// holds no reference to any cart. Orders are never deleted individually;
// ClearAllOrders exists for session reset only.
type OrderManager struct {
	mu      sync.Mutex
	logger  log.Logger
	orders  map[string]*Order
	created []string
	seq     uint64
}

func NewOrderManager(logger log.Logger) *OrderManager {
	return &OrderManager{
		logger: logger,
		orders: make(map[string]*Order),
	}
}

// CreateOrder snapshots the given line items into a new pending order.
// Totals are computed from the items themselves, independently of any
// live cart, so later cart mutations cannot touch the order.
func (m *OrderManager) CreateOrder(ctx context.Context, items []cart.LineItem) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	snapshot := make([]cart.LineItem, len(items))
	copy(snapshot, items)

	subtotal := decimal.Zero
	for _, line := range snapshot {
		subtotal = subtotal.Add(pricing.LineTotal(line.Item.Price, line.Quantity))
	}
	breakdown := pricing.Calculate(subtotal)

	m.mu.Lock()
	m.seq++
	order := &Order{
		ID:        fmt.Sprintf("ORD-%d-%s", m.seq, uuid.NewString()[:8]),
		Items:     snapshot,
		Subtotal:  breakdown.Subtotal,
		Tax:       breakdown.Tax,
		Total:     breakdown.Total,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.orders[order.ID] = order
	m.created = append(m.created, order.ID)
	m.mu.Unlock()

	m.logger.InfoWithExtra(ctx, "Order created", map[string]any{
		"OrderId": order.ID,
		"Items":   len(order.Items),
		"Total":   order.Total.String(),
	})
	return copyOrder(order), nil
}

// ConfirmOrder moves a pending order to confirmed and stamps the
// confirmation time.
func (m *OrderManager) ConfirmOrder(ctx context.Context, id string) error {
	return m.transition(ctx, id, StatusConfirmed, StatusPending)
}

// CancelOrder cancels an order from pending or confirmed.
func (m *OrderManager) CancelOrder(ctx context.Context, id string) error {
	return m.transition(ctx, id, StatusCancelled, StatusPending, StatusConfirmed)
}

// CompleteOrder completes a confirmed order.
func (m *OrderManager) CompleteOrder(ctx context.Context, id string) error {
	return m.transition(ctx, id, StatusCompleted, StatusConfirmed)
}

func (m *OrderManager) transition(ctx context.Context, id string, to Status, from ...Status) error {
	m.mu.Lock()
	order, ok := m.orders[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	allowed := false
	for _, status := range from {
		if order.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		current := order.Status
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s for order %s", ErrInvalidTransition, current, to, id)
	}

	order.Status = to
	if to == StatusConfirmed {
		now := time.Now()
		order.ConfirmedAt = &now
	}
	m.mu.Unlock()

	m.logger.InfoWithExtra(ctx, "Order status changed", map[string]any{
		"OrderId": id,
		"Status":  string(to),
	})
	return nil
}

// GetOrder returns a snapshot copy, and false when the ID is unknown.
func (m *OrderManager) GetOrder(id string) (Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[id]; ok {
		return copyOrder(order), true
	}
	return Order{}, false
}

// GetAllOrders returns snapshot copies in creation order.
func (m *OrderManager) GetAllOrders() []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]Order, 0, len(m.created))
	for _, id := range m.created {
		orders = append(orders, copyOrder(m.orders[id]))
	}
	return orders
}

func (m *OrderManager) GetOrdersByStatus(status Status) []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []Order
	for _, id := range m.created {
		if order := m.orders[id]; order.Status == status {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders
}

// GetTotalRevenue sums the total of confirmed and completed orders.
func (m *OrderManager) GetTotalRevenue() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revenueLocked()
}

func (m *OrderManager) GetStatistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := Statistics{
		TotalOrders:  len(m.orders),
		ByStatus:     make(map[Status]int),
		TotalRevenue: m.revenueLocked(),
	}
	for _, order := range m.orders {
		stats.ByStatus[order.Status]++
	}
	return stats
}

// ClearAllOrders drops the whole order table. Session reset only.
func (m *OrderManager) ClearAllOrders(ctx context.Context) {
	m.mu.Lock()
	dropped := len(m.orders)
	m.orders = make(map[string]*Order)
	m.created = nil
	m.mu.Unlock()

	m.logger.InfoWithExtra(ctx, "Order table cleared", map[string]any{"Dropped": dropped})
}

func (m *OrderManager) revenueLocked() decimal.Decimal {
	revenue := decimal.Zero
	for _, order := range m.orders {
		if order.Status == StatusConfirmed || order.Status == StatusCompleted {
			revenue = revenue.Add(order.Total)
		}
	}
	return revenue
}

func copyOrder(order *Order) Order {
	out := *order
	out.Items = make([]cart.LineItem, len(order.Items))
	copy(out.Items, order.Items)
	if order.ConfirmedAt != nil {
		confirmed := *order.ConfirmedAt
		out.ConfirmedAt = &confirmed
	}
	return out
}
