package controllers

import (
	"context"
	"errors"

	"go-cart-engine/src/services/cart"
	"go-cart-engine/src/services/order"

	"github.com/gofiber/fiber/v2"
)

// OrderController drives the order lifecycle. Checkout hands the cart's
// current line-item snapshot to the order manager and then clears the
// cart; the manager itself never touches the cart.
type OrderController struct {
	orders *order.OrderManager
	cart   *cart.Cart
}

func NewOrderController(orders *order.OrderManager, shoppingCart *cart.Cart) *OrderController {
	return &OrderController{
		orders: orders,
		cart:   shoppingCart,
	}
}

func (c *OrderController) Route(app *fiber.App) {
	api := app.Group("/api/v1/orders")
	api.Post("/checkout", c.Checkout)
	api.Get("/", c.GetAllOrders)
	api.Get("/statistics", c.GetStatistics)
	api.Get("/status/:status", c.GetOrdersByStatus)
	api.Get("/:id", c.GetOrder)
	api.Post("/:id/confirm", c.ConfirmOrder)
	api.Post("/:id/cancel", c.CancelOrder)
	api.Post("/:id/complete", c.CompleteOrder)
}

// Checkout godoc
// @Summary      Create an order from the cart
// @Description  Snapshots the current cart into a pending order and clears the cart
// @Tags         orders
// @Produce      json
// @Success      201  {object}  order.Order
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/v1/orders/checkout [post]
func (c *OrderController) Checkout(ctx *fiber.Ctx) error {
	created, err := c.orders.CreateOrder(ctx.Context(), c.cart.GetItems())
	if err != nil {
		return ctx.Status(orderErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	c.cart.Clear()
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ConfirmOrder godoc
// @Summary      Confirm a pending order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id}/confirm [post]
func (c *OrderController) ConfirmOrder(ctx *fiber.Ctx) error {
	return c.applyTransition(ctx, c.orders.ConfirmOrder, "Order confirmed")
}

// CancelOrder godoc
// @Summary      Cancel a pending or confirmed order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id}/cancel [post]
func (c *OrderController) CancelOrder(ctx *fiber.Ctx) error {
	return c.applyTransition(ctx, c.orders.CancelOrder, "Order cancelled")
}

// CompleteOrder godoc
// @Summary      Complete a confirmed order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id}/complete [post]
func (c *OrderController) CompleteOrder(ctx *fiber.Ctx) error {
	return c.applyTransition(ctx, c.orders.CompleteOrder, "Order completed")
}

// GetOrder godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  order.Order
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id} [get]
func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	found, ok := c.orders.GetOrder(ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return ctx.JSON(found)
}

// GetAllOrders godoc
// @Summary      Get all orders
// @Description  Retrieves order snapshots in creation order
// @Tags         orders
// @Produce      json
// @Success      200  {array}  order.Order
// @Router       /api/v1/orders [get]
func (c *OrderController) GetAllOrders(ctx *fiber.Ctx) error {
	return ctx.JSON(c.orders.GetAllOrders())
}

// GetOrdersByStatus godoc
// @Summary      Get orders by status
// @Tags         orders
// @Produce      json
// @Param        status   path      string  true  "Order status"
// @Success      200  {array}  order.Order
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/v1/orders/status/{status} [get]
func (c *OrderController) GetOrdersByStatus(ctx *fiber.Ctx) error {
	status, ok := order.ParseStatus(ctx.Params("status"))
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown order status"})
	}
	found := c.orders.GetOrdersByStatus(status)
	if found == nil {
		found = []order.Order{}
	}
	return ctx.JSON(found)
}

// GetStatistics godoc
// @Summary      Get order statistics
// @Description  Retrieves per-status counts and total revenue over confirmed and completed orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  order.Statistics
// @Router       /api/v1/orders/statistics [get]
func (c *OrderController) GetStatistics(ctx *fiber.Ctx) error {
	return ctx.JSON(c.orders.GetStatistics())
}

func (c *OrderController) applyTransition(ctx *fiber.Ctx, apply func(ctx context.Context, id string) error, status string) error {
	if err := apply(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(orderErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": status})
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, order.ErrEmptyOrder):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, order.ErrOrderNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
