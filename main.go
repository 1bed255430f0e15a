package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-cart-engine/src/config"
	"go-cart-engine/src/controllers"
	"go-cart-engine/src/infrastructure/log"
	"go-cart-engine/src/services/cart"
	"go-cart-engine/src/services/catalog"
	"go-cart-engine/src/services/notification"
	"go-cart-engine/src/services/order"
	"go-cart-engine/src/services/pricing"

	_ "go-cart-engine/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title        Cart Engine API
// @version      1.0
// @description  In-memory shopping cart and order lifecycle service
func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.NewLogger()

	var configs, err = config.LoadConfig()
	if err != nil {
		logger.Fatal(ctx, "Failed to load configuration", err)
	}
	logger.Info(ctx, "Configuration loaded successfully")

	pricing.SetTaxRate(configs.TaxRate)

	// The catalog is fixed reference data, loaded once at startup
	itemCatalog := catalog.New(defaultCatalogItems())
	logger.InfoWithExtra(ctx, "Catalog loaded", map[string]any{"Items": itemCatalog.Size()})

	// Create the session cart and order manager
	shoppingCart := cart.NewCart()
	orderManager := order.NewOrderManager(logger)

	// Log every cart notification
	notificationService := notification.NewNotificationService(logger)
	unsubscribe := shoppingCart.Subscribe(notificationService)
	defer unsubscribe()

	// Create controllers
	catalogController := controllers.NewCatalogController(itemCatalog)
	cartController := controllers.NewCartController(shoppingCart, itemCatalog)
	orderController := controllers.NewOrderController(orderManager, shoppingCart)

	// Configure Fiber app
	app := fiber.New(fiber.Config{
		ServerHeader: "Cart-Engine-Service",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Exception(c.Context(), "HTTP request error", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Add middleware
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(_ string) bool { return true },
	}))
	app.Use(recover.New())
	app.Use(func(c *fiber.Ctx) error {
		// Stamp each request log line with a correlation ID
		reqCtx := logger.WithCorrelationID(c.Context(), uuid.NewString())
		start := time.Now()
		err := c.Next()
		logger.RequestResponse(reqCtx, &log.Field{
			URL:            c.OriginalURL(),
			HostName:       c.Hostname(),
			HTTPMethod:     c.Method(),
			HTTPStatusCode: c.Response().StatusCode(),
			Duration:       time.Since(start).Milliseconds(),
			Message:        "HTTP request handled",
		})
		return err
	})

	// Add routes
	app.Get("/api/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/api/healthCheck", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	catalogController.Route(app)
	cartController.Route(app)
	orderController.Route(app)

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	serverShutdown := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting server on port "+configs.ServerPort)
		if err := app.Listen(":" + configs.ServerPort); err != nil {
			serverShutdown <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-c:
		logger.Info(ctx, "Shutdown signal received, shutting down gracefully...")
	case err := <-serverShutdown:
		logger.Exception(ctx, "Server error occurred", err)
	}

	// Cancel context to stop background processes
	cancel()

	// Shutdown server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Exception(ctx, "Server shutdown error", err)
	}

	logger.Info(ctx, "Server shutdown complete")
}

// defaultCatalogItems is the fixed item set served for the session.
func defaultCatalogItems() []catalog.Item {
	return []catalog.Item{
		{
			ID:          "espresso",
			Name:        "Espresso",
			Category:    "coffee",
			Price:       decimal.NewFromFloat(3.50),
			Image:       "/images/espresso.jpg",
			Description: "Double shot",
			InStock:     true,
		},
		{
			ID:       "cappuccino",
			Name:     "Cappuccino",
			Category: "coffee",
			Price:    decimal.NewFromFloat(4.75),
			Image:    "/images/cappuccino.jpg",
			InStock:  true,
		},
		{
			ID:       "cold-brew",
			Name:     "Cold Brew",
			Category: "coffee",
			Price:    decimal.NewFromFloat(5.25),
			Image:    "/images/cold-brew.jpg",
			InStock:  false,
		},
		{
			ID:       "croissant",
			Name:     "Butter Croissant",
			Category: "bakery",
			Price:    decimal.NewFromFloat(6.50),
			Image:    "/images/croissant.jpg",
			InStock:  true,
		},
		{
			ID:          "sandwich",
			Name:        "Chicken Sandwich",
			Category:    "food",
			Price:       decimal.NewFromFloat(8.00),
			Image:       "/images/sandwich.jpg",
			Description: "On sourdough",
			InStock:     true,
		},
	}
}
