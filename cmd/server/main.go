package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/swim360/swim360-backend/internal/config"
	"github.com/swim360/swim360-backend/internal/db"
	httpHandlers "github.com/swim360/swim360-backend/internal/http/handlers"
	httpRouter "github.com/swim360/swim360-backend/internal/http/router"
	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/service"
	"github.com/swim360/swim360-backend/internal/storage"
	"github.com/swim360/swim360-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	verificationRepo := repository.NewVerificationRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	productRepo := repository.NewProductRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	cacheService := service.NewCacheService()
	emailService := service.NewEmailService(cfg)
	otpService := service.NewOTPService(verificationRepo, userRepo, emailService, cfg.OTPTTL, cfg.OTPMaxAttempts, cfg.OTPResendCooldown)
	authService := service.NewAuthService(userRepo, otpService, emailService, tokenManager)
	profileService := service.NewProfileService(userRepo)
	listingService := service.NewListingService(listingRepo, subscriptionRepo)
	productService := service.NewProductService(productRepo, userRepo)
	chatService := service.NewChatService(chatRepo, userRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, cacheService)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, cacheService)

	// HTTP хэндлеры.
	secureCookie := cfg.Env == "production"
	authHandler := httpHandlers.NewAuthHandler(authService, cfg.RefreshTokenTTL, secureCookie)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	listingHandler := httpHandlers.NewListingHandler(listingService)
	marketplaceHandler := httpHandlers.NewMarketplaceHandler(productService)
	chatHandler := httpHandlers.NewChatHandler(chatService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	subscriptionHandler := httpHandlers.NewSubscriptionHandler(subscriptionService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		listingHandler,
		marketplaceHandler,
		chatHandler,
		reviewHandler,
		subscriptionHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
