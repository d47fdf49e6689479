package main

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/config"
	"github.com/radieske/esports-bet-engine/internal/shared/kafka"
	"github.com/radieske/esports-bet-engine/internal/shared/logger"
	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	ev "github.com/radieske/esports-bet-engine/pkg/contracts/events"
)

// Consumidor do tópico bet_settled: alimenta o feed de acertos (logs
// estruturados + contadores) sem tocar no caminho do dinheiro. O tópico
// carrega BetSettled e MatchSettled; distingue pelo shape do payload.
func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "settlement-feed-worker"
	}
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "settlement-feed")
	defer reader.Close()

	metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("settlement-feed-worker started", zap.String("consume", cfg.TopicBetSettled))

	ctx := context.Background()
	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.BetSettled
		if jerr := json.Unmarshal(value, &settled); jerr == nil && settled.BetID != "" {
			metrics.BetsSettled.WithLabelValues(settled.Outcome).Inc()
			log.Info("bet settled",
				zap.String("betId", settled.BetID),
				zap.String("matchId", settled.MatchID),
				zap.String("outcome", settled.Outcome),
				zap.Int64("payoutCents", settled.PayoutCents),
			)
			continue
		}

		var match ev.MatchSettled
		if jerr := json.Unmarshal(value, &match); jerr == nil && match.MatchID != "" {
			metrics.MatchesSettled.Inc()
			log.Info("match settled",
				zap.String("matchId", match.MatchID),
				zap.String("winnerSide", match.WinnerSide),
				zap.Int("winners", match.Winners),
				zap.Int("losers", match.Losers),
				zap.Int64("totalPaidCents", match.TotalPaidCents),
			)
			continue
		}

		log.Error("unrecognized payload", zap.ByteString("key", key))
	}
}
