package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"go-cart-engine/src/services/catalog"
	"go-cart-engine/src/services/events"
	"go-cart-engine/src/services/pricing"
)

var (
	// ErrInvalidQuantity signals an add with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrOutOfStock signals an add of an item whose stock flag is off.
	ErrOutOfStock = errors.New("item is out of stock")
)

// LineItem pairs one catalog item with a positive quantity and the time
// it first entered the cart. Quantity is never below 1 inside the cart;
// a line item driven to 0 is removed instead.
type LineItem struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
	AddedAt  time.Time    `json:"addedAt"`
}

// Summary is one consistent read of the whole cart.
type Summary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Items     []LineItem      `json:"items"`
}

// Cart owns the line items of one shopping session, keyed by item ID
// with at most one line item per ID. Iteration order is first-add order.
// Mutations notify subscribers synchronously, after state is committed.
type Cart struct {
	mu          sync.Mutex
	items       map[string]*LineItem
	order       []string
	subscribers []events.CartHandler
	subscribed  map[events.CartHandler]struct{}
}

func NewCart() *Cart {
	return &Cart{
		items:      make(map[string]*LineItem),
		subscribed: make(map[events.CartHandler]struct{}),
	}
}

// AddItem inserts the item with the given quantity, or raises the
// quantity of an existing line item for the same ID. Emits
// cart.item.added or cart.quantity.updated, then cart.total.changed.
// On failure the cart is untouched and nothing is emitted.
func (c *Cart) AddItem(item catalog.Item, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if !item.InStock {
		return fmt.Errorf("%w: %s", ErrOutOfStock, item.ID)
	}

	c.mu.Lock()
	var evts []events.CartEvent
	if line, ok := c.items[item.ID]; ok {
		line.Quantity += quantity
		evts = append(evts, quantityUpdatedEvent(line))
	} else {
		line := &LineItem{Item: item, Quantity: quantity, AddedAt: time.Now()}
		c.items[item.ID] = line
		c.order = append(c.order, item.ID)
		evts = append(evts, itemAddedEvent(line))
	}
	evts = append(evts, c.totalChangedEventLocked())
	subs := c.snapshotSubscribersLocked()
	c.mu.Unlock()

	c.dispatch(subs, evts)
	return nil
}

// RemoveItem deletes the line item for the given ID, emitting
// cart.item.removed then cart.total.changed. Unknown IDs are a silent
// no-op with no notification.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	evts := c.removeLocked(id)
	subs := c.snapshotSubscribersLocked()
	c.mu.Unlock()

	c.dispatch(subs, evts)
}

// UpdateQuantity sets the quantity of an existing line item. A quantity
// of 0 or below removes the line item instead. Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	evts := c.setQuantityLocked(id, quantity)
	subs := c.snapshotSubscribersLocked()
	c.mu.Unlock()

	c.dispatch(subs, evts)
}

// IncrementItem raises the quantity of an existing line item by one.
func (c *Cart) IncrementItem(id string) {
	c.stepQuantity(id, +1)
}

// DecrementItem lowers the quantity by one; a line item at quantity 1
// is removed entirely.
func (c *Cart) DecrementItem(id string) {
	c.stepQuantity(id, -1)
}

func (c *Cart) stepQuantity(id string, delta int) {
	c.mu.Lock()
	var evts []events.CartEvent
	if line, ok := c.items[id]; ok {
		evts = c.setQuantityLocked(id, line.Quantity+delta)
	}
	subs := c.snapshotSubscribersLocked()
	c.mu.Unlock()

	c.dispatch(subs, evts)
}

// Clear empties the cart, emitting cart.cleared then cart.total.changed
// with a zero subtotal. Clearing an empty cart is legal and still emits
// both notifications.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*LineItem)
	c.order = nil
	evts := []events.CartEvent{
		{Type: events.CartCleared, TimeStamp: time.Now()},
		c.totalChangedEventLocked(),
	}
	subs := c.snapshotSubscribersLocked()
	c.mu.Unlock()

	c.dispatch(subs, evts)
}

// GetTotal returns the rounded subtotal over all line items.
func (c *Cart) GetTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pricing.Round(c.subtotalLocked())
}

// GetItemCount returns the sum of quantities, not the number of
// distinct line items.
func (c *Cart) GetItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCountLocked()
}

// GetItems returns a snapshot of all line items in first-add order.
func (c *Cart) GetItems() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

func (c *Cart) GetItem(id string) (LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.items[id]; ok {
		return *line, true
	}
	return LineItem{}, false
}

func (c *Cart) HasItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// GetSummary computes item count, totals and the line-item snapshot from
// a single consistent view of the cart.
func (c *Cart) GetSummary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	breakdown := pricing.Calculate(c.subtotalLocked())
	return Summary{
		ItemCount: c.itemCountLocked(),
		Subtotal:  breakdown.Subtotal,
		Tax:       breakdown.Tax,
		Total:     breakdown.Total,
		Items:     c.itemsLocked(),
	}
}

// Subscribe registers the handler for all future notifications and
// returns a deregistration func that removes exactly that handler.
// Subscribing the same handler twice registers it once.
func (c *Cart) Subscribe(h events.CartHandler) func() {
	c.mu.Lock()
	if _, ok := c.subscribed[h]; !ok {
		c.subscribed[h] = struct{}{}
		c.subscribers = append(c.subscribers, h)
	}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subscribed[h]; !ok {
			return
		}
		delete(c.subscribed, h)
		for i, sub := range c.subscribers {
			if sub == h {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				break
			}
		}
	}
}

func (c *Cart) removeLocked(id string) []events.CartEvent {
	if _, ok := c.items[id]; !ok {
		return nil
	}
	delete(c.items, id)
	for i, itemID := range c.order {
		if itemID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return []events.CartEvent{
		{Type: events.CartItemRemoved, ItemID: id, TimeStamp: time.Now()},
		c.totalChangedEventLocked(),
	}
}

func (c *Cart) setQuantityLocked(id string, quantity int) []events.CartEvent {
	if quantity <= 0 {
		return c.removeLocked(id)
	}
	line, ok := c.items[id]
	if !ok {
		return nil
	}
	line.Quantity = quantity
	return []events.CartEvent{
		quantityUpdatedEvent(line),
		c.totalChangedEventLocked(),
	}
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, id := range c.order {
		line := c.items[id]
		subtotal = subtotal.Add(pricing.LineTotal(line.Item.Price, line.Quantity))
	}
	return subtotal
}

func (c *Cart) itemCountLocked() int {
	count := 0
	for _, line := range c.items {
		count += line.Quantity
	}
	return count
}

func (c *Cart) itemsLocked() []LineItem {
	items := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	return items
}

func (c *Cart) snapshotSubscribersLocked() []events.CartHandler {
	if len(c.subscribers) == 0 {
		return nil
	}
	subs := make([]events.CartHandler, len(c.subscribers))
	copy(subs, c.subscribers)
	return subs
}

func (c *Cart) totalChangedEventLocked() events.CartEvent {
	return events.CartEvent{
		Type:      events.CartTotalChanged,
		Subtotal:  pricing.Round(c.subtotalLocked()),
		TimeStamp: time.Now(),
	}
}

// dispatch delivers each event to every subscriber captured at mutation
// commit, in subscription order, before the mutating call returns.
func (c *Cart) dispatch(subs []events.CartHandler, evts []events.CartEvent) {
	for _, evt := range evts {
		for _, sub := range subs {
			deliver(sub, evt)
		}
	}
}

// deliver isolates handler panics so one bad subscriber cannot abort
// delivery to the rest.
func deliver(h events.CartHandler, evt events.CartEvent) {
	defer func() {
		_ = recover()
	}()
	h.Handle(evt)
}

func itemAddedEvent(line *LineItem) events.CartEvent {
	return events.CartEvent{
		Type:      events.CartItemAdded,
		ItemID:    line.Item.ID,
		Item:      lineItemView(line),
		Quantity:  line.Quantity,
		TimeStamp: time.Now(),
	}
}

func quantityUpdatedEvent(line *LineItem) events.CartEvent {
	return events.CartEvent{
		Type:      events.CartQuantityUpdated,
		ItemID:    line.Item.ID,
		Quantity:  line.Quantity,
		TimeStamp: time.Now(),
	}
}

func lineItemView(line *LineItem) *events.LineItemView {
	return &events.LineItemView{
		ItemID:    line.Item.ID,
		Name:      line.Item.Name,
		UnitPrice: line.Item.Price,
		Quantity:  line.Quantity,
		AddedAt:   line.AddedAt,
	}
}
