package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendwiser/config"
	"spendwiser/internal/adapter/ai/gemini"
	"spendwiser/internal/adapter/export/xlsx"
	httpHandler "spendwiser/internal/adapter/http/handler"
	"spendwiser/internal/core/ports"
	"spendwiser/internal/money"
	"spendwiser/internal/service"
	"spendwiser/internal/store"
	"spendwiser/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting SpendWiser")

	if cfg.Session.Secret == "" {
		log.Fatal().Msg("session.secret is required (SW_SESSION_SECRET)")
	}

	ctx := context.Background()

	backend, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer backend.Close()

	// Stores
	onCorrupt := cfg.Storage.OnCorrupt
	ledgerStore := store.NewLedgerStore(backend.slots, onCorrupt, logger.Component(log, "store"))
	credStore := store.NewCredentialStore(backend.slots, onCorrupt, logger.Component(log, "store"))
	sessionStore := store.NewSessionStore(backend.slots, onCorrupt, logger.Component(log, "store"))
	prefStore := store.NewPreferenceStore(backend.slots, onCorrupt, logger.Component(log, "store"))

	// Core services
	conv := money.NewConverter(money.NewFixedRates(cfg.Currency.Rates))
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.Session.Secret, cfg.Session.Expiry, cfg.Session.Issuer)

	ledgerSvc := service.NewLedgerService(ledgerStore, conv, cfg.Ledger.DanglingWallet, logger.Component(log, "ledger"))
	// Load logs any slots it had to reset to defaults.
	if _, err := ledgerSvc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load ledger")
	}

	sessionSvc := service.NewSessionService(credStore, sessionStore, hashSvc, logger.Component(log, "session"))
	prefSvc := service.NewPreferenceService(prefStore, conv, cfg.Currency.Display, logger.Component(log, "preferences"))

	var provider ports.InsightProvider = gemini.Disabled{}
	if cfg.Gemini.Enabled() {
		p, err := gemini.New(ctx, cfg.Gemini, &http.Client{Timeout: cfg.Gemini.Timeout}, logger.Component(log, "gemini"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
		}
		provider = p
		log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini insights enabled")
	} else {
		log.Warn().Msg("gemini.api_key not set, insights and receipt analysis will fall back")
	}
	insightSvc := service.NewInsightService(ledgerSvc, provider, cfg.Gemini.Timeout, logger.Component(log, "insights"))

	// Load OpenAPI spec for Swagger UI
	specBytes, err := os.ReadFile("docs/api/openapi.yaml")
	if err == nil {
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
		specBytes = nil
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Sessions:       sessionSvc,
		TokenSvc:       tokenSvc,
		Ledger:         ledgerSvc,
		Prefs:          prefSvc,
		Insights:       insightSvc,
		Exporter:       xlsx.NewExporter(),
		RateLimitStore: backend.rateLimits,
		HealthCheckers: backend.health,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPISpec:    specBytes,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
