package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: "a", Name: "Item A", Category: "coffee", Price: decimal.RequireFromString("3.50"), InStock: true},
		{ID: "b", Name: "Item B", Category: "bakery", Price: decimal.RequireFromString("6.50"), InStock: true},
		{ID: "c", Name: "Item C", Category: "coffee", Price: decimal.RequireFromString("5.25"), InStock: false},
	}
}

func TestGetItem(t *testing.T) {
	c := New(testItems())

	item, ok := c.GetItem("b")
	require.True(t, ok)
	assert.Equal(t, "Item B", item.Name)

	_, ok = c.GetItem("missing")
	assert.False(t, ok)
}

func TestGetAllItemsKeepsCatalogOrder(t *testing.T) {
	c := New(testItems())

	var ids []string
	for _, item := range c.GetAllItems() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 3, c.Size())
}

func TestGetItemsByCategory(t *testing.T) {
	c := New(testItems())

	coffee := c.GetItemsByCategory("coffee")
	require.Len(t, coffee, 2)
	assert.Equal(t, "a", coffee[0].ID)
	assert.Equal(t, "c", coffee[1].ID)

	assert.Empty(t, c.GetItemsByCategory("unknown"))
}

func TestCatalogIsReadOnly(t *testing.T) {
	source := testItems()
	c := New(source)

	// Mutating the input slice after construction must not reach the catalog
	source[0].Name = "changed"
	item, _ := c.GetItem("a")
	assert.Equal(t, "Item A", item.Name)

	// Mutating a returned snapshot must not either
	all := c.GetAllItems()
	all[1].InStock = false
	item, _ = c.GetItem("b")
	assert.True(t, item.InStock)
}
