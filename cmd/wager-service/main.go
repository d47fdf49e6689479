package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/cache"
	"github.com/radieske/esports-bet-engine/internal/shared/config"
	"github.com/radieske/esports-bet-engine/internal/shared/kafka"
	"github.com/radieske/esports-bet-engine/internal/shared/lock"
	"github.com/radieske/esports-bet-engine/internal/shared/logger"
	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	whttp "github.com/radieske/esports-bet-engine/internal/wager/http"
	"github.com/radieske/esports-bet-engine/internal/wager/lifecycle"
	"github.com/radieske/esports-bet-engine/internal/wager/oddscache"
	"github.com/radieske/esports-bet-engine/internal/wager/producer"
	"github.com/radieske/esports-bet-engine/internal/wager/store/memory"
	"github.com/radieske/esports-bet-engine/internal/wager/store/postgres"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "wager-service"
	}
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres por padrão; memory roda a demo sem infra nenhuma
	var store domain.Store
	switch cfg.StorageBackend {
	case "memory":
		store = memory.New()
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		pg, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("pg", zap.Error(err))
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("pg schema", zap.Error(err))
		}
		store = pg
	}
	defer store.Close()

	// Redis: cache de partidas + lock da varredura. Opcional: sem Redis o
	// serviço segue sem cache e com a varredura destravada.
	var (
		oc     *oddscache.Cache
		locker lifecycle.Locker
	)
	if cfg.StorageBackend != "memory" {
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			oc = oddscache.New(rdb)
			locker = lock.NewManager(rdb)
		}
	}

	// Kafka: eventos bet_placed / bet_settled
	var publ whttp.Publisher = producer.NopPublisher{}
	if cfg.StorageBackend != "memory" {
		placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
		defer placedWriter.Close()
		settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
		defer settledWriter.Close()
		publ = producer.NewKafkaPublisher(placedWriter, settledWriter)
	}

	// Varredura de lifecycle roda in-process; o lifecycle-worker dedicado
	// cobre deploys onde a API não deve carregar esse papel.
	sweeper := lifecycle.NewSweeper(log, store, locker, cfg.SweepInterval)
	go sweeper.Run(ctx)

	metrics.StartServer(cfg.MetricsPort, store.Ping)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	api := whttp.NewServer(log, store, oc, cfg.MatchCacheTTL, publ, sweeper)
	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{Addr: addr, Handler: api.Router()}

	// sinal de parada derruba a varredura (via ctx) e drena o servidor
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("wager-service listening", zap.String("addr", addr), zap.String("backend", cfg.StorageBackend))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
