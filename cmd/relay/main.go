package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/broadcast"
	"github.com/xela07ax/approval-relay/internal/engine"
	"github.com/xela07ax/approval-relay/internal/infra"
	"github.com/xela07ax/approval-relay/internal/platform"
	"github.com/xela07ax/approval-relay/internal/server"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 3. Клиент платформы (один на весь процесс, только чтение)
	slackClient := platform.NewClient(cfg.Slack, platform.NewMetrics(reg), logger)

	// 4. Трансляция решений (опционально)
	var publisher engine.DecisionPublisher
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		publisher = broadcast.NewRedisPublisher(rdb, cfg.Redis.Channel)
		logger.Info("decision broadcast enabled", zap.String("channel", cfg.Redis.Channel))
	}

	// 5. Core
	relay := engine.NewRelay(slackClient, publisher, engine.NewMetrics(reg), logger)

	// 6. HTTP Server
	relayServer := server.NewRelayServer(cfg, logger, relay, reg)
	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      relayServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("approval relay started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Проверяем токен; до успеха /ready отдает 503
	go func() {
		if _, err := slackClient.Verify(appCtx); err != nil {
			logger.Error("platform credentials check failed", zap.Error(err))
			return
		}
		relayServer.SetReady(true)
	}()

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop // Ждем сигнал
	logger.Info("approval relay stopping...")
	relayServer.SetReady(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	// Дожидаемся фоновых задач (показ формы, публикация решений)
	if err := relay.Wait(shutdownCtx); err != nil {
		logger.Warn("background tasks did not finish in time", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("approval relay exited properly")
}
