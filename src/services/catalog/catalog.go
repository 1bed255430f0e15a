package catalog

import "github.com/shopspring/decimal"

// Item is an immutable catalog record. Price carries 2-digit cent
// precision; InStock gates whether the item can be added to a cart.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	InStock     bool            `json:"inStock"`
}

// Catalog is a fixed, ordered, read-only sequence of items, loaded once
// at process start. Lookups are by ID or category tag.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

func New(items []Item) *Catalog {
	c := &Catalog{
		items: make([]Item, len(items)),
		byID:  make(map[string]Item, len(items)),
	}
	copy(c.items, items)
	for _, item := range c.items {
		c.byID[item.ID] = item
	}
	return c
}

func (c *Catalog) GetItem(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *Catalog) GetAllItems() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Catalog) GetItemsByCategory(category string) []Item {
	var items []Item
	for _, item := range c.items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

func (c *Catalog) Size() int {
	return len(c.items)
}
