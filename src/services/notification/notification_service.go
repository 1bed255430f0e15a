package notification

import (
	"context"

	"go-cart-engine/src/infrastructure/log"
	"go-cart-engine/src/services/events"
)

// NotificationService observes the cart notification stream and logs
// every state change. It is the default subscriber wired at startup;
// the browser view layer subscribes the same way.
type NotificationService struct {
	logger log.Logger
}

func NewNotificationService(logger log.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// Handle implements events.CartHandler.
func (n *NotificationService) Handle(event events.CartEvent) {
	ctx := context.Background()

	fields := map[string]any{
		"EventType": event.Type,
		"TimeStamp": event.TimeStamp,
	}

	switch event.Type {
	case events.CartItemAdded:
		fields["ItemId"] = event.Item.ItemID
		fields["ItemName"] = event.Item.Name
		fields["Quantity"] = event.Item.Quantity
	case events.CartItemRemoved:
		fields["ItemId"] = event.ItemID
	case events.CartQuantityUpdated:
		fields["ItemId"] = event.ItemID
		fields["Quantity"] = event.Quantity
	case events.CartTotalChanged:
		fields["Subtotal"] = event.Subtotal.String()
	case events.CartCleared:
		// nothing beyond the envelope
	default:
		n.logger.WarnWithExtra(ctx, "Unknown cart event type", fields)
		return
	}

	n.logger.InfoWithExtra(ctx, "Cart notification", fields)
}
