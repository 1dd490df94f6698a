package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"orderdesk/internal/config"
	"orderdesk/internal/http/handlers"
	applog "orderdesk/internal/log"
	"orderdesk/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Entity store: volatile in-memory by default, sqlite when DB_DSN is set.
	var st store.Storage
	if cfg.DBDSN != "" {
		sqlStore, err := store.OpenSQL(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		st = sqlStore
	} else {
		st = store.NewMemStore()
	}
	if cfg.SeedDemo {
		if err := store.SeedDemo(st); err != nil {
			log.Fatal(err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(st)
	api := app.Group("/api")

	searchLimiter := limiter.New(limiter.Config{Max: 60, Expiration: time.Minute})

	orders := api.Group("/orders")
	orders.Get("/stats/dashboard", deps.OrderHandler.Stats)
	orders.Get("/export/json", deps.OrderHandler.ExportJSON)
	orders.Get("/export/csv", deps.OrderHandler.ExportCSV)
	orders.Get("/", searchLimiter, deps.OrderHandler.Search)
	orders.Post("/", deps.OrderHandler.Create)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:id/status", deps.OrderHandler.UpdateStatus)

	products := api.Group("/products")
	products.Get("/", searchLimiter, deps.ProductHandler.List)
	products.Post("/", deps.ProductHandler.Create)
	products.Get("/:id", deps.ProductHandler.Get)
	products.Put("/:id", deps.ProductHandler.Update)
	products.Delete("/:id", deps.ProductHandler.Delete)

	customers := api.Group("/customers")
	customers.Get("/", deps.CustomerHandler.List)
	customers.Post("/", deps.CustomerHandler.Create)
	customers.Get("/:id/orders", deps.CustomerHandler.CustomerOrders)

	api.Get("/invoices/:id", deps.InvoiceHandler.Get)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
