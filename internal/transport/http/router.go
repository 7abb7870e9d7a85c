package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/internal/transport/http/handler"
	"github.com/sakashimaa/shop-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	User    *handler.UserHandler
	Order   *handler.OrderHandler
	Upload  *handler.UploadHandler
}

type Config struct {
	BodyLimit          int
	Timeout            time.Duration
	ProtectAdminRoutes bool
	// UploadDir is served at /uploads when set.
	UploadDir string
	// LimiterMax of zero disables rate limiting.
	LimiterMax        int
	LimiterExpiration time.Duration
}

func NewApp(cfg Config, metrics *middleware.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shop-api",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())

	if metrics != nil {
		app.Use(metrics.Handler())
	}

	if cfg.LimiterMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.LimiterMax,
			Expiration: cfg.LimiterExpiration,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success": 0,
					"message": "Too many requests. Try again later.",
				})
			},
		}))
	}

	if cfg.Timeout > 0 {
		app.Use(func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), cfg.Timeout)
			defer cancel()

			c.SetUserContext(ctx)
			return c.Next()
		})
	}

	if cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir)
	}

	return app
}

func RegisterRoutes(app *fiber.App, h *Handlers, authService service.AuthService, cfg Config, logger *zap.Logger) {
	authMiddleware := middleware.NewAuthMiddleware(authService, logger)

	// admin wraps the CRUD routes that need a supplier when protection is on.
	admin := func(handlers ...fiber.Handler) []fiber.Handler {
		if !cfg.ProtectAdminRoutes {
			return handlers
		}
		return append([]fiber.Handler{authMiddleware, middleware.RequireSupplier()}, handlers...)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Shop API is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": 1, "status": "ok"})
	})

	app.Post("/upload", h.Upload.Upload)

	app.Post("/addproduct", h.Product.AddProduct)
	app.Post("/removeproduct", h.Product.RemoveProduct)
	app.Get("/allproducts", h.Product.AllProducts)
	app.Get("/products/:category", h.Product.ProductsByCategory)
	app.Get("/product/:id", h.Product.GetProduct)
	app.Post("/updateproduct", h.Product.UpdateProduct)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	users := app.Group("/users")
	users.Get("/me", authMiddleware, h.User.Me)
	users.Put("/me", authMiddleware, h.User.UpdateMe)
	users.Get("", admin(h.User.List)...)
	users.Post("", admin(h.User.Create)...)
	users.Get("/:id", admin(h.User.Get)...)
	users.Put("/:id", admin(h.User.Update)...)
	users.Delete("/:id", admin(h.User.Delete)...)

	orders := app.Group("/orders")
	orders.Post("", authMiddleware, h.Order.Create)
	orders.Get("/my-orders", authMiddleware, h.Order.MyOrders)
	orders.Get("", admin(h.Order.List)...)
	orders.Get("/:id", authMiddleware, h.Order.Get)
	orders.Patch("/:id/status", authMiddleware, h.Order.UpdateStatus)
	orders.Patch("/:id", admin(h.Order.Update)...)
	orders.Delete("/:id", admin(h.Order.Delete)...)
}
