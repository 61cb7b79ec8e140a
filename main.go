package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Saipreetham0/ksp-project-sub001/config"
	"github.com/Saipreetham0/ksp-project-sub001/controllers"
	"github.com/Saipreetham0/ksp-project-sub001/controllers/auth"
	"github.com/Saipreetham0/ksp-project-sub001/database"
	"github.com/Saipreetham0/ksp-project-sub001/middleware"
	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/routes"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger initialization error: %v", err)
	}
	defer logger.Sync()
	sugar := utils.Log

	utils.SetJWTSecret(cfg.JWTSecret)

	if err := utils.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		// Token revocation degrades without Redis; not fatal.
		sugar.Warnw("redis unavailable", "error", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		sugar.Fatalw("failed to connect database", "error", err)
	}

	// Auto-migrate only in development to avoid accidental production schema changes
	if strings.ToLower(cfg.Env) == "development" {
		sugar.Info("running in development mode - performing auto-migration")
		if err := db.AutoMigrate(
			&models.User{},
			&models.Project{},
			&models.Payment{},
			&models.Notification{},
		); err != nil {
			sugar.Fatalw("failed to migrate database", "error", err)
		}
	}

	// Vendor clients are constructed once per process and handed to the
	// controllers that need them.
	gateway := utils.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	otpClient := utils.NewMSG91Client(cfg.MSG91AuthKey, cfg.MSG91TemplateID)
	wooClient := utils.NewWooCommerceClient(cfg.WooCommerceURL, cfg.WooCommerceConsumerKey, cfg.WooCommerceConsumerSecret)
	otpLimiter := middleware.NewOTPRateLimiter()

	router := routes.InitRouter(routes.Controllers{
		Orders:        controllers.NewOrdersController(db, gateway, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret),
		Notifications: controllers.NewNotificationsController(db),
		Projects:      controllers.NewProjectsController(db),
		Store:         controllers.NewStoreController(wooClient),
		Auth:          auth.NewController(db, otpClient, otpLimiter, cfg.TrustedProxies),
	}, cfg)

	// Global middleware, outermost first:
	// Logging -> Security headers -> Request ID -> Max Body -> Recovery -> Metrics -> Session Guard
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(cfg.Env)(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(cfg.MaxBodyBytes)(
					middleware.RecoveryMiddleware(
						middleware.MetricsMiddleware(
							middleware.SessionGuard(router),
						),
					),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}

	sugar.Info("server exited")
}
