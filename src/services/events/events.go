package events

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Cart notification topics
	CartItemAdded       = "cart.item.added"
	CartItemRemoved     = "cart.item.removed"
	CartQuantityUpdated = "cart.quantity.updated"
	CartTotalChanged    = "cart.total.changed"
	CartCleared         = "cart.cleared"
)

// LineItemView is the read-only projection of a cart line item carried
// inside notifications, so subscribers never see cart internals.
type LineItemView struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
}

// CartEvent describes one cart state change. Which fields are populated
// depends on Type: Item for cart.item.added, ItemID/Quantity for
// cart.quantity.updated, ItemID for cart.item.removed, Subtotal for
// cart.total.changed, none beyond the envelope for cart.cleared.
type CartEvent struct {
	Type      string          `json:"type"`
	ItemID    string          `json:"itemId,omitempty"`
	Item      *LineItemView   `json:"item,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TimeStamp time.Time       `json:"timestamp"`
}

func (e *CartEvent) Validate() error {
	if e.Type == "" {
		return errors.New("missing event type in CartEvent")
	}
	switch e.Type {
	case CartItemAdded:
		if e.Item == nil || e.Item.ItemID == "" || e.Item.Quantity <= 0 {
			return errors.New("missing line item in CartEvent")
		}
	case CartItemRemoved:
		if e.ItemID == "" {
			return errors.New("missing item ID in CartEvent")
		}
	case CartQuantityUpdated:
		if e.ItemID == "" || e.Quantity <= 0 {
			return errors.New("missing item ID or quantity in CartEvent")
		}
	case CartTotalChanged, CartCleared:
		// envelope only
	default:
		return errors.New("unknown event type in CartEvent")
	}
	return nil
}

// CartHandler receives cart notifications. Delivery is synchronous and
// ordered; handlers must not block.
type CartHandler interface {
	Handle(event CartEvent)
}
