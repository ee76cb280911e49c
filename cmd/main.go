package main

import (
	"civicchain/backend/internal/ai"
	"civicchain/backend/internal/api/handler"
	"civicchain/backend/internal/complaint"
	"civicchain/backend/internal/config"
	"civicchain/backend/internal/feed"
	"civicchain/backend/internal/logging"
	"civicchain/backend/internal/storage"
	"civicchain/backend/internal/telegram"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterCleanup  = 10 * time.Minute
)

// setupStorage повертає PostgreSQL сховище, якщо задано DSN, інакше сховище в пам'яті
func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage; data is lost on restart")
		return storage.NewMemStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	s := storage.NewStorageService(db)
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	logger.Info("PostgreSQL connected, migrations complete")
	return s, nil
}

func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Must(cfg.IsDevelopment())
	defer logger.Sync()
	for _, f := range cfg.MissingEnvFiles() {
		logger.Warn("env file not found, using process environment", zap.String("file", f))
	}
	// Не стартуємо з відомим усім секретом JWT
	if err := cfg.CheckServer(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Сховище
	store, err := setupStorage(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up storage", zap.Error(err))
	}

	// 2. Стрічка скарг; з Redis усі інстанси ділять один канал
	hub := feed.NewManagerService(logger.Named("feed"))
	go hub.Run(ctx)

	var publishers feed.MultiPublisher
	if cfg.RedisAddr != "" {
		rdb, err := setupRedis(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect Redis", zap.Error(err))
		}
		defer rdb.Close()
		bridge := feed.NewRedisBridge(rdb, hub, logger.Named("redis"))
		go bridge.Listen(ctx)
		publishers = append(publishers, bridge)
	} else {
		publishers = append(publishers, hub)
	}

	var notifier *telegram.Notifier
	if cfg.TelegramEnabled() {
		notifier, err = telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramLang, logger.Named("telegram"))
		if err != nil {
			logger.Error("telegram notifier disabled", zap.Error(err))
			notifier = nil
		} else {
			go notifier.Run(ctx)
			publishers = append(publishers, notifier)
		}
	}

	// 3. AI перевірка та асистент. nil Completer вмикає резервний режим
	var completer ai.Completer
	if cfg.LLMEnabled() {
		completer = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	} else {
		logger.Warn("OpenAI API key not configured, legal review and chat are disabled")
	}
	validator := ai.NewValidator(completer, cfg.OpenAIValidationModel, cfg.LLMTimeout, logger.Named("ai"))
	assistant := ai.NewAssistant(completer, cfg.OpenAIChatModel, cfg.LLMTimeout)

	// 4. HTTP сервер
	svc := complaint.NewService(store, validator, publishers, logger.Named("complaint"))
	if notifier != nil {
		go telegram.NewBotService(notifier, svc, store).Run(ctx)
	}

	tokens := handler.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	h := handler.NewHandler(svc, assistant, hub, tokens, cfg.CORSAllowedOrigins, logger.Named("http"))

	limiter := handler.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateBurst, logger.Named("ratelimit"))
	limiter.StartCleanup(ctx, limiterCleanup)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.WithCORS(handler.NewRouter(h, limiter), cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		// Виклики LLM тривають до LLMTimeout
		WriteTimeout:   cfg.LLMTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("CivicChain backend listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	<-hub.Done()
}
