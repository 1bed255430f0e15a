package controllers

import (
	"go-cart-engine/src/services/catalog"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{
		catalog: cat,
	}
}

func (c *CatalogController) Route(app *fiber.App) {
	api := app.Group("/api/v1/catalog")
	api.Get("/items", c.GetAllItems)
	api.Get("/items/category/:category", c.GetItemsByCategory)
	api.Get("/items/:id", c.GetItem)
}

// GetAllItems godoc
// @Summary      Get all catalog items
// @Description  Retrieves the full item catalog in catalog order
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  catalog.Item
// @Router       /api/v1/catalog/items [get]
func (c *CatalogController) GetAllItems(ctx *fiber.Ctx) error {
	return ctx.JSON(c.catalog.GetAllItems())
}

// GetItem godoc
// @Summary      Get catalog item by ID
// @Description  Retrieves a single catalog item
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  catalog.Item
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/catalog/items/{id} [get]
func (c *CatalogController) GetItem(ctx *fiber.Ctx) error {
	itemID := ctx.Params("id")
	item, ok := c.catalog.GetItem(itemID)
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}
	return ctx.JSON(item)
}

// GetItemsByCategory godoc
// @Summary      Get catalog items by category
// @Description  Retrieves all catalog items carrying the given category tag
// @Tags         catalog
// @Produce      json
// @Param        category   path      string  true  "Category tag"
// @Success      200  {array}  catalog.Item
// @Router       /api/v1/catalog/items/category/{category} [get]
func (c *CatalogController) GetItemsByCategory(ctx *fiber.Ctx) error {
	category := ctx.Params("category")
	items := c.catalog.GetItemsByCategory(category)
	if items == nil {
		items = []catalog.Item{}
	}
	return ctx.JSON(items)
}
