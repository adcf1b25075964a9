package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/application/dashboard"
	appOnboarding "github.com/selfservice/portal/internal/application/onboarding"
	"github.com/selfservice/portal/internal/application/payments"
	"github.com/selfservice/portal/internal/application/settings"
	appWebhooks "github.com/selfservice/portal/internal/application/webhooks"
	"github.com/selfservice/portal/internal/infrastructure/auth"
	"github.com/selfservice/portal/internal/infrastructure/clients"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
	webhooksclient "github.com/selfservice/portal/internal/infrastructure/clients/webhooks"
	"github.com/selfservice/portal/internal/infrastructure/config"
	"github.com/selfservice/portal/internal/infrastructure/logger"
	"github.com/selfservice/portal/internal/infrastructure/session"
	"github.com/selfservice/portal/internal/infrastructure/stripe"
	"github.com/selfservice/portal/internal/interfaces/http/handler"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
	"github.com/selfservice/portal/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting selfservice portal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	sessions, err := session.NewStore(cfg.Redis, cfg.Session)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	connectorClient := connector.NewClient(
		clients.New(connector.ServiceName, cfg.Connector.BaseURL, cfg.Connector.Timeout, log),
		connector.DefaultPaths(),
	)
	webhooksClient := webhooksclient.NewClient(
		clients.New(webhooksclient.ServiceName, cfg.Webhooks.BaseURL, cfg.Webhooks.Timeout, log),
		webhooksclient.DefaultPaths(),
	)

	stripeAdapter, err := stripe.NewAdapter(&stripe.Config{
		SecretKey:  cfg.Stripe.SecretKey,
		IsTestMode: cfg.Stripe.IsTestMode,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe adapter", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	bankDetails := appOnboarding.NewBankDetailsService(connectorClient, stripeAdapter, log)
	responsiblePerson := appOnboarding.NewResponsiblePersonService(connectorClient, stripeAdapter, log)
	organisationDetails := appOnboarding.NewOrganisationDetailsService(connectorClient, log)
	companyDetails := appOnboarding.NewCompanyDetailsService(connectorClient, stripeAdapter, log)
	governmentDocument := appOnboarding.NewGovernmentDocumentService(connectorClient, stripeAdapter, log)
	dashboardService := dashboard.NewService(connectorClient, log)
	refundService := payments.NewRefundService(connectorClient, log)
	settingsService := settings.NewService(connectorClient, log)
	webhookService := appWebhooks.NewService(webhooksClient, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.CorrelationID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	base := handler.NewBaseHandler(log)
	systemHandler := handler.NewSystemHandler(base, jwtService, sessions, cfg.Cookie, cfg.App.Name, version)
	onboardingHandler := handler.NewOnboardingHandler(base,
		bankDetails, responsiblePerson, organisationDetails, companyDetails, governmentDocument)
	dashboardHandler := handler.NewDashboardHandler(base, dashboardService)
	refundsHandler := handler.NewRefundsHandler(base, refundService)
	settingsHandler := handler.NewSettingsHandler(base, settingsService)
	webhooksHandler := handler.NewWebhooksHandler(base, webhookService)

	systemHandler.RegisterHealthRoutes(engine)
	systemHandler.RegisterAuthRoutes(engine)

	r := router.New(engine,
		middleware.NewSessionAuth(jwtService, sessions, cfg.Cookie.Name, log),
		middleware.AccountContext(connectorClient, log),
	)
	r.RegisterSessionScoped(systemHandler)
	r.RegisterAccountScoped(dashboardHandler).
		RegisterAccountScoped(onboardingHandler).
		RegisterAccountScoped(refundsHandler).
		RegisterAccountScoped(settingsHandler).
		RegisterAccountScoped(webhooksHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
