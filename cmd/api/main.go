package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whiskd-backend/config"
	"whiskd-backend/internal/delivery/http/middleware"
	v1 "whiskd-backend/internal/delivery/http/v1"
	"whiskd-backend/internal/domain"
	"whiskd-backend/internal/infrastructure/cache"
	"whiskd-backend/internal/infrastructure/notion"
	"whiskd-backend/internal/infrastructure/relay"
	"whiskd-backend/internal/infrastructure/session"
	pgrepo "whiskd-backend/internal/repository/postgres"
	"whiskd-backend/internal/usecase"
	"whiskd-backend/pkg/logger"
	"whiskd-backend/pkg/storage"
	"whiskd-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const serviceName = "whiskd-api"

// unconfiguredSource keeps the storefront up with an empty menu when no content store is usable.
type unconfiguredSource struct {
	reason string
}

func (s unconfiguredSource) FetchVariantRows(ctx context.Context) ([]domain.VariantRow, error) {
	return nil, fmt.Errorf("%w: %s", domain.ErrContentStoreConfig, s.reason)
}

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.SessionSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// --- Catalog Source ---
	var closers []func()
	var source domain.VariantRowSource
	switch cfg.CatalogSource {
	case "notion":
		source = notion.NewClient(cfg.NotionToken, cfg.NotionDBID, cfg.NotionBaseURL, cfg.NotionVersion, cfg.NotionTimeout)
		log.Info().Msg("Catalog source: Notion")
	case "postgres":
		if cfg.DBUrl == "" {
			source = unconfiguredSource{reason: "DB_DSN is missing"}
			break
		}
		pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		db := pgrepo.OpenDB(pgxPool)
		closers = append(closers, func() { db.Close(); pgxPool.Close() })

		repo := pgrepo.NewCatalogRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare catalog schema")
		}
		source = repo
		log.Info().Msg("Catalog source: PostgreSQL via pgx")
	default:
		source = unconfiguredSource{reason: fmt.Sprintf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)}
	}

	// --- Session Store ---
	var sessions domain.SessionStore
	switch cfg.SessionStore {
	case "redis":
		redisStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		closers = append(closers, func() { _ = redisStore.Close() })
		sessions = redisStore
		log.Info().Str("addr", cfg.RedisAddr).Msg("Session store: Redis")
	default:
		sessions = session.NewMemoryStore(memCache, cfg.SessionTTL)
		log.Info().Msg("Session store: in-memory")
	}

	// --- Storage Module (R2, payment proof archive) ---
	var archive domain.ProofArchive
	if cfg.ArchiveEnabled() {
		r2Storage, err := storage.NewR2Storage(
			context.Background(),
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize R2 Storage, payment proofs will not be archived")
		} else {
			archive = r2Storage
		}
	}

	// --- Relay ---
	webhook := relay.NewWebhookClient(cfg.WebhookURL, cfg.RelayTimeout)

	payment := domain.PaymentInfo{
		Method:        "Bank Transfer",
		BankName:      cfg.PaymentBankName,
		AccountNumber: cfg.PaymentAccountNumber,
		AccountHolder: cfg.PaymentAccountHolder,
	}

	// --- Modules Initialization ---
	catalogUC := usecase.NewCatalogUsecase(source, memCache, cfg.CacheCatalogTTL)
	storefrontUC := usecase.NewStorefrontUsecase(catalogUC, sessions)
	checkoutUC := usecase.NewCheckoutUsecase(sessions, webhook, archive, payment, cfg.RelayTimeout)

	storefrontHandler := v1.NewStorefrontHandler(storefrontUC)
	checkoutHandler := v1.NewCheckoutHandler(checkoutUC, cfg.MaxUploadSizeMB)
	configHandler := v1.NewConfigHandler(memCache, payment)

	// Set up Router
	mux := http.NewServeMux()

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/enums", configHandler.GetEnums)

	// Storefront
	mux.HandleFunc("GET /api/v1/storefront", storefrontHandler.GetStorefront)
	mux.HandleFunc("GET /api/v1/cart", storefrontHandler.GetCart)
	mux.HandleFunc("PUT /api/v1/cart/size", storefrontHandler.SelectSize)
	mux.HandleFunc("PUT /api/v1/cart/quantity", storefrontHandler.SetQuantity)
	mux.HandleFunc("PUT /api/v1/cart/customer", storefrontHandler.UpdateCustomer)
	mux.HandleFunc("POST /api/v1/cart/place-order", storefrontHandler.PlaceOrder)

	// Checkout
	mux.HandleFunc("GET /api/v1/checkout", checkoutHandler.GetCheckout)
	mux.HandleFunc("POST /api/v1/checkout/confirm", checkoutHandler.ConfirmOrder)
	mux.HandleFunc("POST /api/submit-order", checkoutHandler.SubmitOrder)

	// Health Check
	mux.HandleFunc("GET /api/v1/health", v1.Health)
	mux.HandleFunc("GET /health", v1.Health) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Session, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = middleware.NewSessionMiddleware(cfg.SessionTTL, cfg.Env == "production")(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, "1.0.0", cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Orders already acknowledged to shoppers still have to reach the webhook
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.RelayTimeout)
	defer drainCancel()
	if err := checkoutUC.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Exited with order relays still in flight")
	}

	for _, closeFn := range closers {
		closeFn()
	}

	logger.ServiceStop(serviceName)
}
