package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizza-storefront/clients"
	"pizza-storefront/config"
	"pizza-storefront/controllers"
	"pizza-storefront/logger"
	"pizza-storefront/middleware"
	awspkg "pizza-storefront/pkg/aws"
	"pizza-storefront/repository"
	"pizza-storefront/routes"
	"pizza-storefront/sender"
	"pizza-storefront/services"
	"pizza-storefront/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "pizza-storefront"

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer logger.Sync()
	log := logger.Log

	backend := clients.NewBackendClient(cfg.BackendURL, cfg.RequestTimeout)

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := runSeed(backend); err != nil {
			log.Error("Seed failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Optional collaborators ---
	cartOpts := services.CartOptions{IdempotencyTTL: cfg.IdempotencyTTL}

	if cfg.RedisURL != "" {
		redisClient, err := repository.NewRedisClient(rootCtx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cartOpts.Idempotency = repository.NewIdempotencyRepository(redisClient)
		log.Info("Connected to Redis, order idempotency enabled")
	}

	var metricsClient *awspkg.MetricsClient
	if cfg.OrderSNSTopicARN != "" || cfg.CloudWatchEnabled {
		awsCfg, err := awspkg.LoadAWSConfig(rootCtx)
		if err != nil {
			log.Warn("AWS config load failed, SNS and CloudWatch disabled (non-fatal)", zap.Error(err))
		} else {
			if cfg.OrderSNSTopicARN != "" {
				cartOpts.Senders = append(cartOpts.Senders, sender.NewSNSSender(awspkg.NewSNSClient(awsCfg), cfg.OrderSNSTopicARN))
				log.Info("SNS order notifications enabled", zap.String("topic", cfg.OrderSNSTopicARN))
			}
			if cfg.CloudWatchEnabled {
				metricsClient = awspkg.NewMetricsClient(awsCfg, true)
				cartOpts.Metrics = metricsClient
				log.Info("CloudWatch metrics enabled")
			}
		}
	}

	if cfg.TelegramBotToken != "" {
		tg, err := sender.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("Telegram notifications disabled (non-fatal)", zap.Error(err))
		} else {
			cartOpts.Senders = append(cartOpts.Senders, tg)
			log.Info("Telegram order notifications enabled", zap.Int64("chat_id", cfg.TelegramChatID))
		}
	}

	// --- Dependency injection ---
	menuService := services.NewMenuService(backend, cfg.MenuAutoSeed, log)
	cartService := services.NewCartService(backend, cartOpts, log)
	storefront := controllers.NewStorefrontController(menuService, cartService)

	go menuService.Load(rootCtx)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(metricsClient, serviceName))
	r.Use(middleware.SecurityHeaders())
	r.SetHTMLTemplate(web.Templates())

	routes.RegisterStorefrontRoutes(r, storefront, routes.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		OrderLimiter:   middleware.NewRateLimiter(cfg.OrderRatePerMinute, cfg.OrderRateBurst, 5*time.Minute),
		AdminToken:     cfg.AdminToken,
	})

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Pizza storefront started",
			zap.String("port", cfg.Port),
			zap.String("backend", backend.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	cartService.Wait()

	log.Info("Pizza storefront stopped gracefully")
}
