package main

import (
	"log/slog"
	"net/http"
	"os"

	"bank-gateway/internal/config"
	"bank-gateway/internal/handlers"
	"bank-gateway/internal/metadata"
	"bank-gateway/internal/middleware"
	"bank-gateway/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is a development convenience; deployments set real env vars
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	placement := metadata.Discover(cfg.Backends.Timeout)

	slog.Info("starting frontend gateway",
		"version", cfg.Server.Version,
		"cluster", placement.Cluster,
		"pod", placement.Pod,
		"zone", placement.Zone,
	)

	e := newServer(cfg, placement)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newServer(cfg *config.Config, placement metadata.Placement) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RateLimiter())

	// Shared collaborators: the verifier's public key and the outbound
	// connection pool are the only process-wide state
	metrics := services.NewPrometheusMetrics()
	verifier := services.NewTokenService(cfg.Auth.PublicKey)
	client := services.NewBackendClient(metrics)

	aggregator := services.NewAggregator(client, cfg.Backends)
	ledger := services.NewLedgerService(client, metrics, cfg.Backends)
	contacts := services.NewContactsService(client, cfg.Backends)
	users := services.NewUserService(client, cfg.Backends)
	oauth := services.NewOAuthService(cfg.OAuth, cfg.Backends)
	statements := services.NewStatementService(client, cfg.Backends)
	mailer := services.NewSMTPMailer(cfg.Mail, cfg.Bank.Name)

	homeHandler := handlers.NewHomeHandler(aggregator, verifier, cfg.Bank.Name)
	authHandler := handlers.NewAuthHandler(users, oauth, verifier, cfg.OAuthEnabled(), cfg.Bank.Name)
	consentHandler := handlers.NewConsentHandler(oauth, verifier, cfg.Bank.Name)
	transactionHandler := handlers.NewTransactionHandler(ledger, contacts, cfg.Bank.LocalRoutingNum)
	statementHandler := handlers.NewStatementHandler(statements, users, mailer, cfg.Mail)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Version, placement)

	// Probes and metrics
	e.GET("/version", healthHandler.Version)
	e.GET("/ready", healthHandler.Ready)
	e.GET("/whereami", healthHandler.Whereami)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Views
	e.GET("/", homeHandler.Root)
	e.GET("/home", homeHandler.Home,
		middleware.RedirectUnauthenticated(verifier, "/login"))
	e.GET("/login", authHandler.LoginPage)
	e.GET("/consent", consentHandler.ConsentPage)

	// State-changing operations: everything ledger-facing fails closed
	// behind the credential middleware
	e.POST("/login", authHandler.Login)
	e.POST("/signup", authHandler.Signup)
	e.POST("/logout", authHandler.Logout)
	e.POST("/consent", consentHandler.Consent)

	authed := e.Group("", middleware.RequireCredential(verifier))
	authed.POST("/payment", transactionHandler.Payment)
	authed.POST("/deposit", transactionHandler.Deposit)
	authed.GET("/statement/:account_id/pdf", statementHandler.StatementPDF)
	authed.POST("/send_statement_email/:account_id", statementHandler.SendStatementEmail)

	return e
}
