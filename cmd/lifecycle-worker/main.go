package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/cache"
	"github.com/radieske/esports-bet-engine/internal/shared/config"
	"github.com/radieske/esports-bet-engine/internal/shared/lock"
	"github.com/radieske/esports-bet-engine/internal/shared/logger"
	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	"github.com/radieske/esports-bet-engine/internal/wager/lifecycle"
	"github.com/radieske/esports-bet-engine/internal/wager/store/postgres"
)

// Worker dedicado da varredura de lifecycle: promove scheduled->live,
// encerra partidas estouradas devolvendo stakes e limpa apostas órfãs.
// Pode rodar em mais de uma instância; o lock Redis evita trabalho duplicado.
func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "lifecycle-worker"
	}
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer store.Close()

	var locker lifecycle.Locker
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable, sweeping unlocked", zap.Error(err))
	} else {
		locker = lock.NewManager(rdb)
	}

	metrics.StartServer(cfg.MetricsPort, store.Ping)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	sweeper := lifecycle.NewSweeper(log, store, locker, cfg.SweepInterval)
	sweeper.RunOnce(ctx) // uma passada imediata no boot
	sweeper.Run(ctx)
}
