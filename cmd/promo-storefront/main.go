package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebagonz91/promo-storefront/internal/api/handlers"
	"github.com/sebagonz91/promo-storefront/internal/api/middleware"
	"github.com/sebagonz91/promo-storefront/internal/catalog"
	"github.com/sebagonz91/promo-storefront/internal/config"
	"github.com/sebagonz91/promo-storefront/internal/health"
	"github.com/sebagonz91/promo-storefront/internal/metrics"
	"github.com/sebagonz91/promo-storefront/internal/notify"
	repository "github.com/sebagonz91/promo-storefront/internal/repositories"
	service "github.com/sebagonz91/promo-storefront/internal/services"
	"github.com/sebagonz91/promo-storefront/pkg/sendgrid"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	db, err := repository.NewDB(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	// The catalog is authoritative for pricing and stock and is loaded once
	// at startup; a restart picks up database changes.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	products, err := repository.NewProductRepo(db).LoadCatalog(loadCtx)
	cancelLoad()
	if err != nil {
		slog.Error("❌ Error loading the product catalog", "error", err.Error())
		os.Exit(1)
	}

	cat := catalog.New(products)
	slog.Info("Catalog loaded", slog.Int("products", cat.Len()))

	cartStore := repository.NewCartStore(redisClient, cfg.Cart.TTL)
	notifier := notify.NewLogNotifier(logger)
	mailer := sendgrid.NewQuoteMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	cartService := service.NewCartService(cat, cartStore, notifier)
	quoteService := service.NewQuoteService(cat, cartStore, notifier)

	catalogHandler := handlers.NewCatalogHandler(cat, cfg.Catalog.LowStockThreshold)
	cartHandler := handlers.NewCartHandler(cartService)
	quoteHandler := handlers.NewQuoteHandler(quoteService, mailer)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating the health handler", "error", err.Error())
		os.Exit(1)
	}

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ResetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/quotes", quoteHandler.OpenQuote())
	routerMux.HandleFunc("GET /api/v1/quotes/{id}", quoteHandler.GetQuote())
	routerMux.HandleFunc("DELETE /api/v1/quotes/{id}", quoteHandler.CloseQuote())
	routerMux.HandleFunc("POST /api/v1/quotes/{id}/cart-items", quoteHandler.MergeCartItems())
	routerMux.HandleFunc("PUT /api/v1/quotes/{id}/items", quoteHandler.UpdateItemQuantity())
	routerMux.HandleFunc("DELETE /api/v1/quotes/{id}/items", quoteHandler.RemoveItem())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr), slog.String("env", cfg.Env))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}

}
