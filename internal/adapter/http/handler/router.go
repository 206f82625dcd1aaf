package handler

import (
	"time"

	"spendwiser/internal/adapter/http/middleware"
	"spendwiser/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	maxJSONBody = 1 << 20
	// Receipt images travel as data URLs, both to analysis and inside the
	// saved transaction.
	maxReceiptBody = 10 << 20
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Sessions       ports.SessionDirectory
	TokenSvc       ports.TokenService
	Ledger         ports.LedgerService
	Prefs          ports.PreferenceService
	Insights       ports.InsightService
	Exporter       ports.TransactionExporter
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AllowedOrigins []string
	OpenAPISpec    []byte // nil = docs disabled
	Mode           string // gin mode; empty keeps the current one
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, "Content-Disposition", "X-RateLimit-Remaining", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	docs := NewDocsHandler(deps.OpenAPISpec)
	r.GET("/swagger", docs.UI)
	r.GET("/swagger/spec", docs.Spec)

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	sessionAuth := middleware.SessionAuth(deps.TokenSvc, deps.Sessions, deps.Logger)
	jsonBody := middleware.MaxBodySize(maxJSONBody)

	// --- Public routes ---
	authHandler := NewAuthHandler(deps.Sessions, deps.TokenSvc)
	auth := v1.Group("/auth", jsonBody)
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.POST("/logout", sessionAuth, authHandler.Logout)
		auth.GET("/me", sessionAuth, authHandler.Me)
	}

	// --- Session-authenticated routes ---
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Prefs, deps.Exporter)
	prefHandler := NewPreferenceHandler(deps.Prefs)
	insightHandler := NewInsightHandler(deps.Insights)

	api := v1.Group("", jsonBody, sessionAuth)
	{
		api.GET("/wallets", ledgerHandler.ListWallets)
		api.GET("/transactions", ledgerHandler.ListTransactions)
		api.GET("/transactions/export", rl("export"), ledgerHandler.ExportTransactions)
		api.GET("/dashboard", ledgerHandler.Dashboard)

		api.GET("/preferences/display-currency", prefHandler.GetDisplayCurrency)
		api.PUT("/preferences/display-currency", prefHandler.SetDisplayCurrency)

		api.POST("/insights", rl("insights"), insightHandler.Generate)
		api.GET("/insights/latest", insightHandler.Latest)
	}

	receiptBody := middleware.MaxBodySize(maxReceiptBody)

	v1.POST("/transactions", receiptBody, sessionAuth, ledgerHandler.CreateTransaction)

	receipts := v1.Group("/receipts", receiptBody, sessionAuth)
	{
		receipts.POST("/analyze", rl("receipts"), insightHandler.AnalyzeReceipt)
	}

	return r
}
