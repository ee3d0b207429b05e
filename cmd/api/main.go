package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/config"
	"github.com/SergeiKhy/click-to-wish/internal/handler"
	"github.com/SergeiKhy/click-to-wish/internal/middleware"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"github.com/SergeiKhy/click-to-wish/internal/service"
	"github.com/SergeiKhy/click-to-wish/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Открытие файла БД (sqlite, WAL); один хэндл на весь процесс
	db, err := repository.NewSQLiteDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("path", cfg.DB.Path), zap.Error(err))
	}
	defer db.Close()
	logger.Info("Opened SQLite store", zap.String("path", db.Path()), zap.Int("schema_version", repository.SchemaVersion()))

	// Кэш поздравлений: Redis, если задан адрес, иначе в памяти процесса
	var wishCache repository.WishCache
	if cfg.Redis.Enabled() {
		redis, err := repository.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
		wishCache = repository.NewRedisWishCache(redis)
		logger.Info("Connected to Redis")
	} else {
		wishCache = repository.NewMemoryWishCache()
	}

	// Инициализация репозиториев
	clickRepo := repository.NewClickRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Инициализация сервисов
	friend := service.Friend{Name: cfg.Friend.Name, ProfileURL: cfg.Friend.ProfileURL}
	generator := service.NewOpenAIGenerator(service.OpenAIConfig{
		APIKey:  cfg.Wish.OpenAIKey,
		Model:   cfg.Wish.OpenAIModel,
		BaseURL: cfg.Wish.OpenAIBaseURL,
	})
	if cfg.Wish.OpenAIKey == "" {
		logger.Info("OPENAI_API_KEY not set, wishes come from the local rotation")
	}
	wishService := service.NewWishService(generator, wishCache, service.WishConfig{
		FriendName: cfg.Friend.Name,
		Timeout:    cfg.Wish.Timeout,
		CacheTTL:   cfg.Wish.CacheTTL,
	}, logger)
	messageService := service.NewMessageService(messageRepo, logger)
	visitService := service.NewVisitService(clickRepo, messageService, wishService, friend, logger)

	// Реестр сессий посетителей
	sessions := session.NewManager(session.ManagerConfig{
		TTL:           cfg.Session.TTL,
		RedirectDelay: cfg.Friend.RedirectDelay,
	}, logger)
	defer sessions.Stop()

	// Инициализация middleware
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Stop()
	messageLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimit.MessagesPerMinute))
	defer messageLimiter.Stop()

	// Настройка роутера
	router := handler.NewRouter(handler.Dependencies{
		Visits:   visitService,
		Messages: messageService,
		Store:    db,
		Sessions: sessions,
		SessionConfig: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
		},
		RateLimiter:    rateLimiter,
		MessageLimiter: messageLimiter,
		Friend:         friend,
		Logger:         logger,
	})

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.Wish.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
