package api

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp creates the fiber app with the console's JSON codec and error shape
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "SUI Faucet Dashboard",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})
}

// SetupRoutes sets up all API routes. gatherer backs /metrics.
func SetupRoutes(app *fiber.App, handler *Handler, gatherer prometheus.Gatherer) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	// The dashboard front end may be served from another origin
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, OPTIONS",
	}))

	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Polled dashboard state
	dash := api.Group("/dashboard")
	dash.Get("/stats", handler.GetStats)
	dash.Get("/analytics", handler.RequireSession, handler.GetAnalytics)
	dash.Post("/refresh", handler.Refresh)
	dash.Get("/wallet/:address", handler.GetWalletActivity)

	api.Post("/faucet", handler.RequestTokens)

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.RequireSession, handler.Logout)

	api.Get("/settings", handler.GetSettings)
	api.Put("/settings", handler.RequireSession, handler.UpdateSettings)
}
