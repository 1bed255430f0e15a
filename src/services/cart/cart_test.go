package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cart-engine/src/services/catalog"
	"go-cart-engine/src/services/events"
)

func testItem(id string, price string, inStock bool) catalog.Item {
	return catalog.Item{
		ID:      id,
		Name:    "Item " + id,
		Price:   decimal.RequireFromString(price),
		InStock: inStock,
	}
}

// eventRecorder captures every notification it receives, in order.
type eventRecorder struct {
	events []events.CartEvent
}

func (r *eventRecorder) Handle(event events.CartEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []string {
	types := make([]string, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

func TestAddItem(t *testing.T) {
	t.Run("inserts a new line item and emits added then total changed", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		err := c.AddItem(testItem("a", "6.50", true), 2)
		require.NoError(t, err)

		require.Equal(t, []string{events.CartItemAdded, events.CartTotalChanged}, recorder.types())
		assert.Equal(t, "a", recorder.events[0].Item.ItemID)
		assert.Equal(t, 2, recorder.events[0].Item.Quantity)
		assert.True(t, recorder.events[1].Subtotal.Equal(decimal.RequireFromString("13.00")))
	})

	t.Run("re-adding the same ID merges quantities into one line item", func(t *testing.T) {
		c := NewCart()
		item := testItem("a", "6.50", true)
		require.NoError(t, c.AddItem(item, 2))

		recorder := &eventRecorder{}
		c.Subscribe(recorder)
		require.NoError(t, c.AddItem(item, 3))

		require.Equal(t, []string{events.CartQuantityUpdated, events.CartTotalChanged}, recorder.types())
		assert.Equal(t, 5, recorder.events[0].Quantity)

		items := c.GetItems()
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("rejects a non-positive quantity without touching state", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		for _, quantity := range []int{0, -1, -50} {
			err := c.AddItem(testItem("a", "1.00", true), quantity)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		}

		assert.True(t, c.IsEmpty())
		assert.Empty(t, recorder.events)
	})

	t.Run("rejects an out-of-stock item without touching state", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		err := c.AddItem(testItem("a", "1.00", false), 1)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.False(t, c.HasItem("a"))
		assert.Empty(t, recorder.events)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes a present line item and notifies", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "2.00", true), 1))

		recorder := &eventRecorder{}
		c.Subscribe(recorder)
		c.RemoveItem("a")

		assert.False(t, c.HasItem("a"))
		require.Equal(t, []string{events.CartItemRemoved, events.CartTotalChanged}, recorder.types())
		assert.Equal(t, "a", recorder.events[0].ItemID)
		assert.True(t, recorder.events[1].Subtotal.IsZero())
	})

	t.Run("is a silent no-op for an unknown ID", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		c.RemoveItem("missing")

		assert.Empty(t, recorder.events)
	})
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("sets the quantity and notifies", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "2.00", true), 1))

		recorder := &eventRecorder{}
		c.Subscribe(recorder)
		c.UpdateQuantity("a", 7)

		line, ok := c.GetItem("a")
		require.True(t, ok)
		assert.Equal(t, 7, line.Quantity)
		require.Equal(t, []string{events.CartQuantityUpdated, events.CartTotalChanged}, recorder.types())
	})

	t.Run("quantity at or below zero removes the line item", func(t *testing.T) {
		for _, quantity := range []int{0, -3} {
			c := NewCart()
			require.NoError(t, c.AddItem(testItem("a", "2.00", true), 5))

			recorder := &eventRecorder{}
			c.Subscribe(recorder)
			c.UpdateQuantity("a", quantity)

			assert.False(t, c.HasItem("a"))
			require.Equal(t, []string{events.CartItemRemoved, events.CartTotalChanged}, recorder.types())
		}
	})

	t.Run("is a no-op for an unknown ID", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		c.UpdateQuantity("missing", 3)

		assert.Empty(t, recorder.events)
	})
}

func TestIncrementDecrement(t *testing.T) {
	t.Run("increment raises the quantity by one", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "2.00", true), 1))

		c.IncrementItem("a")

		line, _ := c.GetItem("a")
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("decrement at quantity one removes the line item", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "2.00", true), 1))

		c.DecrementItem("a")

		assert.False(t, c.HasItem("a"))
		assert.True(t, c.IsEmpty())
	})

	t.Run("both are no-ops for unknown IDs", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		c.IncrementItem("missing")
		c.DecrementItem("missing")

		assert.Empty(t, recorder.events)
	})
}

func TestTotalsAndCounts(t *testing.T) {
	t.Run("count sums quantities and total sums price times quantity", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "6.50", true), 2))
		require.NoError(t, c.AddItem(testItem("b", "8.00", true), 1))

		assert.Equal(t, 3, c.GetItemCount())
		assert.True(t, c.GetTotal().Equal(decimal.RequireFromString("21.00")))
	})

	t.Run("count and total stay consistent with the item snapshot", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "1.25", true), 3))
		require.NoError(t, c.AddItem(testItem("b", "0.99", true), 4))
		c.UpdateQuantity("a", 2)
		c.DecrementItem("b")
		require.NoError(t, c.AddItem(testItem("c", "10.00", true), 1))
		c.RemoveItem("c")

		count := 0
		subtotal := decimal.Zero
		for _, line := range c.GetItems() {
			count += line.Quantity
			subtotal = subtotal.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		assert.Equal(t, count, c.GetItemCount())
		assert.True(t, c.GetTotal().Equal(subtotal.Round(2)))
	})

	t.Run("summary is one consistent read", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "6.50", true), 2))
		require.NoError(t, c.AddItem(testItem("b", "8.00", true), 1))

		summary := c.GetSummary()

		assert.Equal(t, 3, summary.ItemCount)
		assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("21.00")))
		assert.True(t, summary.Tax.Equal(decimal.RequireFromString("2.10")))
		assert.True(t, summary.Total.Equal(decimal.RequireFromString("23.10")))
		assert.Len(t, summary.Items, 2)
	})
}

func TestGetItemsOrdering(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))
	require.NoError(t, c.AddItem(testItem("b", "1.00", true), 1))
	require.NoError(t, c.AddItem(testItem("c", "1.00", true), 1))

	// Quantity updates must not disturb first-add order
	c.UpdateQuantity("a", 9)

	ids := func() []string {
		var out []string
		for _, line := range c.GetItems() {
			out = append(out, line.Item.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids())

	// Removing and re-adding moves the item to the end
	c.RemoveItem("b")
	require.NoError(t, c.AddItem(testItem("b", "1.00", true), 1))
	assert.Equal(t, []string{"a", "c", "b"}, ids())
}

func TestGetItemsSnapshot(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))

	items := c.GetItems()
	items[0].Quantity = 99

	line, _ := c.GetItem("a")
	assert.Equal(t, 1, line.Quantity, "mutating the snapshot must not reach the cart")
}

func TestClear(t *testing.T) {
	t.Run("empties the cart and emits cleared then total changed zero", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem(testItem("a", "3.00", true), 4))

		recorder := &eventRecorder{}
		c.Subscribe(recorder)
		c.Clear()

		assert.True(t, c.IsEmpty())
		assert.Equal(t, 0, c.GetItemCount())
		require.Equal(t, []string{events.CartCleared, events.CartTotalChanged}, recorder.types())
		assert.True(t, recorder.events[1].Subtotal.IsZero())
	})

	t.Run("clearing an empty cart still emits both notifications", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)

		c.Clear()

		require.Equal(t, []string{events.CartCleared, events.CartTotalChanged}, recorder.types())
	})
}

func TestSubscribe(t *testing.T) {
	t.Run("delivers to subscribers in subscription order", func(t *testing.T) {
		c := NewCart()
		var sequence []string
		first := handlerFunc(func(event events.CartEvent) {
			sequence = append(sequence, "first:"+event.Type)
		})
		second := handlerFunc(func(event events.CartEvent) {
			sequence = append(sequence, "second:"+event.Type)
		})
		c.Subscribe(&first)
		c.Subscribe(&second)

		require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))

		assert.Equal(t, []string{
			"first:" + events.CartItemAdded,
			"second:" + events.CartItemAdded,
			"first:" + events.CartTotalChanged,
			"second:" + events.CartTotalChanged,
		}, sequence)
	})

	t.Run("subscribing the same handler twice registers it once", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		c.Subscribe(recorder)
		c.Subscribe(recorder)

		require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))

		assert.Len(t, recorder.events, 2)
	})

	t.Run("unsubscribed handlers receive nothing from later operations", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		unsubscribe := c.Subscribe(recorder)

		require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))
		seen := len(recorder.events)

		unsubscribe()
		require.NoError(t, c.AddItem(testItem("b", "1.00", true), 1))
		c.Clear()

		assert.Len(t, recorder.events, seen)
	})

	t.Run("unsubscribing twice is harmless", func(t *testing.T) {
		c := NewCart()
		recorder := &eventRecorder{}
		unsubscribe := c.Subscribe(recorder)
		unsubscribe()
		unsubscribe()

		require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))
		assert.Empty(t, recorder.events)
	})

	t.Run("a handler subscribing during delivery does not deadlock", func(t *testing.T) {
		c := NewCart()
		late := &eventRecorder{}
		var during handlerFunc
		during = func(events.CartEvent) {
			c.Subscribe(late)
		}
		c.Subscribe(&during)

		require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))
		// The late subscriber sees subsequent operations
		require.NoError(t, c.AddItem(testItem("b", "1.00", true), 1))
		assert.NotEmpty(t, late.events)
	})

	t.Run("a panicking handler does not abort delivery to the rest", func(t *testing.T) {
		c := NewCart()
		bad := handlerFunc(func(events.CartEvent) {
			panic("subscriber bug")
		})
		recorder := &eventRecorder{}
		c.Subscribe(&bad)
		c.Subscribe(recorder)

		require.NotPanics(t, func() {
			require.NoError(t, c.AddItem(testItem("a", "1.00", true), 1))
		})
		assert.Len(t, recorder.events, 2)
	})
}

// handlerFunc adapts a func to events.CartHandler. Pointer receivers keep
// distinct handlers distinguishable in the subscriber set.
type handlerFunc func(events.CartEvent)

func (f *handlerFunc) Handle(event events.CartEvent) {
	(*f)(event)
}
