package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ateliernoir/storefront-backend/internal/address"
	"github.com/ateliernoir/storefront-backend/internal/cart"
	"github.com/ateliernoir/storefront-backend/internal/config"
	"github.com/ateliernoir/storefront-backend/internal/logging"
	"github.com/ateliernoir/storefront-backend/internal/middleware"
	"github.com/ateliernoir/storefront-backend/internal/notification"
	"github.com/ateliernoir/storefront-backend/internal/order"
	"github.com/ateliernoir/storefront-backend/internal/payment"
	"github.com/ateliernoir/storefront-backend/internal/product"
	"github.com/ateliernoir/storefront-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logging.Init("storefront-api", cfg.LogFile)
	log := logging.Base()

	db := mustOpenDB(cfg.DatabaseURL, log)
	defer db.Close()

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		log.Error("running migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLog(log))
	app.Use(middleware.Metrics())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	addressService := address.NewService(address.NewPostgresRepository(db))
	addressHandler := address.NewHandler(addressService)

	orderService := order.NewService(order.NewPostgresRepository(db), productService, cartService)
	orderHandler := order.NewHandler(orderService)

	// only providers with a configured key are usable
	gateways := payment.NewRegistry()
	if cfg.PaystackSecretKey != "" {
		gateways.Register(payment.NewPaystack(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.GatewayTimeout))
	}
	if cfg.ChapaSecretKey != "" {
		gateways.Register(payment.NewChapa(cfg.ChapaSecretKey, cfg.ChapaBaseURL, cfg.GatewayTimeout))
	}

	var sender notification.Sender
	if cfg.SMTPHost != "" {
		sender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		sender = notification.NewLogSender(logging.New("notification"))
	}

	paymentService := payment.NewService(
		payment.NewPostgresRepository(db),
		orderService,
		userService,
		gateways,
		notification.NewService(sender),
		cfg.CallbackBaseURL,
		logging.New("payment"),
	)
	paymentHandler := payment.NewHandler(paymentService)

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	// gateway redirects land here without a token
	paymentHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)

	log.Info("listening", slog.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func mustOpenDB(url string, log *slog.Logger) *sql.DB {
	if url == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Error("opening database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.Ping(); err != nil {
		log.Error("pinging database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return db
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
