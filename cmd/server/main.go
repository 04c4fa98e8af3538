// @title Colloquium Registration API
// @version 1.0
// @description Conference registration form and admin dashboard backend.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"colloquium/config"
	_ "colloquium/docs"
	authadapter "colloquium/internal/adapters/auth"
	emailadapter "colloquium/internal/adapters/email"
	delivery "colloquium/internal/delivery/http"
	"colloquium/internal/delivery/http/controllers"
	"colloquium/internal/delivery/http/middleware"
	"colloquium/internal/domain"
	"colloquium/internal/repository/postgres"
	"colloquium/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	catalog := domain.DefaultCatalog()

	registrationRepo := postgres.NewRegistrationRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer(), logger)

	pricing := services.NewPricingService(catalog, cfg.UPIPayeeID, cfg.UPIPayeeName)
	registrationService := services.NewRegistrationService(registrationRepo, catalog, pricing, emailService, logger)
	dashboard := services.NewDashboard(registrationRepo, catalog, logger)
	exporter := services.NewExporter(catalog)

	tokens := authadapter.NewJWTTokens(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(10)
	authService := services.NewAuthService(adminRepo, hasher, tokens, cfg.AdminAllowlist, cfg.JWTExpiry)

	registrationController := controllers.NewRegistrationController(logger, registrationService)
	catalogController := controllers.NewCatalogController(logger, catalog, pricing)
	authController := controllers.NewAuthController(logger, authService)
	adminController := controllers.NewAdminController(logger, dashboard, exporter)

	requireAuth := middleware.RequireAuth(tokens, cfg.AdminAllowlist, logger)
	mux := delivery.NewRouter(registrationController, catalogController, authController, adminController, requireAuth)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
