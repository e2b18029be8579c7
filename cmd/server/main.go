package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"jo3qma.com/product_catalog/internal/config"
	"jo3qma.com/product_catalog/internal/handler"
	"jo3qma.com/product_catalog/internal/infrastructure/dummyjson"
	"jo3qma.com/product_catalog/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 依存関係の組み立て（依存性注入）
	// 外部APIクライアントをリポジトリとして注入することで、腐敗防止層のパターンを実現
	client := dummyjson.NewClient(cfg.APIBaseURL,
		dummyjson.WithTimeout(cfg.HTTPTimeout),
		dummyjson.WithLogger(logger),
	) // repository.CategoryRepository, repository.ProductRepository

	sessions := usecase.NewSessionRegistry(func() *usecase.CatalogStore {
		return usecase.NewCatalogStore(client, client,
			usecase.WithPageSize(cfg.PageSize),
			usecase.WithLogger(logger),
		)
	}, cfg.SessionTTL)

	h := handler.NewCatalogHandler(sessions, logger)

	// Connectハンドラーの登録
	mux := http.NewServeMux()
	path, catalogHandler := handler.NewCatalogServiceHandler(h)
	mux.Handle(path, catalogHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 期限切れセッションの掃除
	go sweepSessions(ctx, sessions, cfg.SessionTTL, logger)

	go func() {
		logger.Info("🚀 Server starting",
			zap.String("addr", addr),
			zap.String("api_base_url", cfg.APIBaseURL),
			zap.Int64("page_size", cfg.PageSize),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Server failed to start", zap.Error(err))
		}
	}()

	// シグナル待機（Ctrl+Cなど）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	cancel()

	// グレースフルシャットダウン
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("❌ Server forced to shutdown", zap.Error(err))
	}

	logger.Info("✅ Server exited")
}

// sweepSessions は ttl の半分の間隔で期限切れセッションを破棄します
func sweepSessions(ctx context.Context, sessions *usecase.SessionRegistry, ttl time.Duration, logger *zap.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Info("expired sessions evicted", zap.Int("count", n), zap.Int("remaining", sessions.Len()))
			}
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
