package controllers

import (
	"errors"
	"strconv"

	"go-cart-engine/src/controllers/models"
	"go-cart-engine/src/services/cart"
	"go-cart-engine/src/services/catalog"

	"github.com/gofiber/fiber/v2"
)

// CartController is the HTTP face of the cart. It resolves catalog
// records itself and hands them to the cart, which never sees the
// catalog directly.
type CartController struct {
	cart    *cart.Cart
	catalog *catalog.Catalog
}

func NewCartController(shoppingCart *cart.Cart, cat *catalog.Catalog) *CartController {
	return &CartController{
		cart:    shoppingCart,
		catalog: cat,
	}
}

func (c *CartController) Route(app *fiber.App) {
	api := app.Group("/api/v1/cart")
	api.Get("/", c.GetItems)
	api.Get("/summary", c.GetSummary)
	api.Post("/items", c.AddItem)
	api.Delete("/items/:id", c.RemoveItem)
	api.Put("/items/:id/quantity/:quantity", c.UpdateQuantity)
	api.Post("/items/:id/increment", c.IncrementItem)
	api.Post("/items/:id/decrement", c.DecrementItem)
	api.Post("/clear", c.Clear)
}

// AddItem godoc
// @Summary      Add an item to the cart
// @Description  Adds a catalog item to the cart, merging quantities for an item already present
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        item  body  models.AddItemRequest  true  "Item payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/cart/items [post]
func (c *CartController) AddItem(ctx *fiber.Ctx) error {
	var request models.AddItemRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if request.Quantity == 0 {
		request.Quantity = 1
	}

	item, ok := c.catalog.GetItem(request.ItemID)
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	if err := c.cart.AddItem(item, request.Quantity); err != nil {
		return ctx.Status(cartErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "Item added to cart",
		"itemCount": c.cart.GetItemCount(),
	})
}

// RemoveItem godoc
// @Summary      Remove an item from the cart
// @Description  Removes the line item for the given ID; unknown IDs are a no-op
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/cart/items/{id} [delete]
func (c *CartController) RemoveItem(ctx *fiber.Ctx) error {
	c.cart.RemoveItem(ctx.Params("id"))
	return ctx.JSON(fiber.Map{"status": "Item removed from cart"})
}

// UpdateQuantity godoc
// @Summary      Update a line item quantity
// @Description  Sets the quantity of an existing line item; 0 or below removes it
// @Tags         cart
// @Produce      json
// @Param        id        path      string  true  "Item ID"
// @Param        quantity  path      int     true  "New quantity"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/v1/cart/items/{id}/quantity/{quantity} [put]
func (c *CartController) UpdateQuantity(ctx *fiber.Ctx) error {
	quantity, err := strconv.Atoi(ctx.Params("quantity"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quantity"})
	}

	c.cart.UpdateQuantity(ctx.Params("id"), quantity)
	return ctx.JSON(fiber.Map{"status": "Quantity updated"})
}

// IncrementItem godoc
// @Summary      Increment a line item quantity
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/cart/items/{id}/increment [post]
func (c *CartController) IncrementItem(ctx *fiber.Ctx) error {
	c.cart.IncrementItem(ctx.Params("id"))
	return ctx.JSON(fiber.Map{"status": "Quantity incremented"})
}

// DecrementItem godoc
// @Summary      Decrement a line item quantity
// @Description  Lowers the quantity by one; a line item at quantity 1 is removed
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/cart/items/{id}/decrement [post]
func (c *CartController) DecrementItem(ctx *fiber.Ctx) error {
	c.cart.DecrementItem(ctx.Params("id"))
	return ctx.JSON(fiber.Map{"status": "Quantity decremented"})
}

// GetItems godoc
// @Summary      Get cart line items
// @Description  Retrieves all line items in first-add order
// @Tags         cart
// @Produce      json
// @Success      200  {array}  cart.LineItem
// @Router       /api/v1/cart [get]
func (c *CartController) GetItems(ctx *fiber.Ctx) error {
	return ctx.JSON(c.cart.GetItems())
}

// GetSummary godoc
// @Summary      Get cart summary
// @Description  Retrieves item count, subtotal, tax, total and line items from one consistent read
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cart.Summary
// @Router       /api/v1/cart/summary [get]
func (c *CartController) GetSummary(ctx *fiber.Ctx) error {
	return ctx.JSON(c.cart.GetSummary())
}

// Clear godoc
// @Summary      Clear the cart
// @Description  Empties all line items; clearing an empty cart is legal
// @Tags         cart
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/cart/clear [post]
func (c *CartController) Clear(ctx *fiber.Ctx) error {
	c.cart.Clear()
	return ctx.JSON(fiber.Map{"status": "Cart cleared"})
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, cart.ErrOutOfStock):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
