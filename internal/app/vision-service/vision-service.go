// Package visionservice собирает приложение анализа изображений:
// конфигурацию, проверку токенов, клиент модели, кеш, учёт использования
// и HTTP-сервер с graceful shutdown.
package visionservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/ai-vision-service/internal/cache"
	"github.com/magabrotheeeer/ai-vision-service/internal/config"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/sl"
	"github.com/magabrotheeeer/ai-vision-service/internal/metrics"
	"github.com/magabrotheeeer/ai-vision-service/internal/services/analysis"
	"github.com/magabrotheeeer/ai-vision-service/internal/storage/memory"
	"github.com/magabrotheeeer/ai-vision-service/internal/visionprovider"
)

// App приложение с HTTP-сервером и подключёнными зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

// New создаёт приложение по конфигурации. Отсутствие JWKS URL или ключа
// OpenAI не прерывает запуск: зависимые операции откажут на этапе запроса
// со структурированной ошибкой, а при старте пишется предупреждение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var tokenVerifier middlewarectx.TokenVerifier
	if cfg.JWKSURL != "" {
		verifier, err := clerk.NewVerifier(cfg.JWKSURL)
		if err != nil {
			return nil, err
		}
		tokenVerifier = verifier
	} else {
		logger.Warn("CLERK_JWKS_URL is not set, authentication is disabled")
	}

	var provider analysis.VisionProvider
	if cfg.APIKey != "" {
		provider = visionprovider.NewClient(cfg.APIKey,
			visionprovider.WithModel(cfg.Model),
			visionprovider.WithMaxTokens(cfg.MaxTokens),
			visionprovider.WithTimeout(cfg.OpenAI.Timeout),
		)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, image analysis is disabled")
	}

	var resultCache analysis.ResultCache
	var cacheRedis *cache.Cache
	if cfg.RedisConnection.Addr != "" {
		c, err := cache.New(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("failed to connect to redis, analysis cache is disabled", sl.Err(err))
		} else {
			cacheRedis = c
			resultCache = c
		}
	}

	ledger := memory.New()
	m := metrics.New(prometheus.DefaultRegisterer)
	analysisService := analysis.New(ledger, provider, resultCache, m, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, analysisService, tokenVerifier)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.cache != nil {
			_ = a.cache.Close()
		}
		return err
	}
}
