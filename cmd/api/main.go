package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/cartbound/storefront-golang/internal/auth"
	"github.com/cartbound/storefront-golang/internal/cache"
	"github.com/cartbound/storefront-golang/internal/config"
	"github.com/cartbound/storefront-golang/internal/database"
	"github.com/cartbound/storefront-golang/internal/events"
	"github.com/cartbound/storefront-golang/internal/handlers"
	"github.com/cartbound/storefront-golang/internal/notifier"
	"github.com/cartbound/storefront-golang/internal/orders"
	"github.com/cartbound/storefront-golang/internal/payment"
	"github.com/cartbound/storefront-golang/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: no .env file found, relying on system environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if cfg.WebhookSecret == "" {
		log.Fatal("PAYMENT_WEBHOOK_SECRET environment variable is required")
	}

	// --- Database ---
	db, err := database.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection pool established")

	// --- Cache ---
	store := cache.NewRedis(cfg.RedisAddr)
	if err := store.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer store.Close()
	log.Println("Redis connection established")

	// --- Notifier ---
	mail := notifier.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	// --- Order events (optional) ---
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		log.Printf("Kafka producer ready (topic %s)", cfg.KafkaTopic)
	}

	// --- Webhook pipeline ---
	// Post-commit hooks are fire-and-forget: each runs in its own
	// error boundary and only logs on failure.
	hooks := []orders.PostCommitHook{
		func(_ context.Context, ev *payment.Event, orderID int64) {
			if ev.CustomerEmail == "" {
				return
			}
			items := make([]notifier.Item, 0, len(ev.Items))
			for _, it := range ev.Items {
				items = append(items, notifier.Item{
					Name:      it.ProductName,
					Quantity:  it.Quantity,
					UnitPrice: it.UnitPrice,
				})
			}
			// SMTP can be slow; send fully detached from the webhook
			// response. Single attempt, failures only logged.
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[notifier] confirmation for order %d panicked: %v", orderID, r)
					}
				}()
				if err := mail.SendOrderConfirmation(ev.CustomerEmail, orderID, ev.TotalDecimal(), items); err != nil {
					log.Printf("[notifier] confirmation for order %d failed: %v", orderID, err)
				}
			}()
		},
		func(ctx context.Context, ev *payment.Event, orderID int64) {
			if producer == nil {
				return
			}
			if err := producer.PublishOrderPaid(ctx, orderID, ev.UserID, ev.SessionID, ev.TotalDecimal()); err != nil {
				log.Printf("[events] order.paid publish for order %d failed: %v", orderID, err)
			}
		},
		func(ctx context.Context, ev *payment.Event, orderID int64) {
			keys := make([]string, 0, len(ev.Items))
			for _, it := range ev.Items {
				keys = append(keys, cache.ProductKey(it.ProductID))
			}
			if err := store.Delete(ctx, keys...); err != nil {
				log.Printf("[cache] product invalidation for order %d failed: %v", orderID, err)
			}
		},
	}

	app := &handlers.Handlers{
		DB:        db,
		Cache:     store,
		Cfg:       cfg,
		Tokens:    auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry),
		Verifier:  payment.NewVerifier(cfg.WebhookSecret),
		Finalizer: orders.NewFinalizer(orders.NewSQLStore(db), hooks...),
	}

	router := routes.SetupRouter(app)

	log.Printf("Storefront API listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
