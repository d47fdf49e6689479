package lifecycle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// Locker é o lock distribuído opcional entre instâncias do worker.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Sweeper roda a varredura de lifecycle (avanço de status + reconciliação)
// num intervalo fixo. A varredura em si é idempotente, então sobreposição
// entre instâncias não corrompe nada; o lock só evita trabalho duplicado.
type Sweeper struct {
	log      *zap.Logger
	store    domain.Store
	locker   Locker // nil desliga o lock (modo memory / instância única)
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(log *zap.Logger, store domain.Store, locker Locker, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:      log,
		store:    store,
		locker:   locker,
		interval: interval,
		now:      time.Now,
	}
}

// Run bloqueia rodando a varredura até o contexto ser cancelado.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("lifecycle sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("lifecycle sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executa uma passada completa: avanço de status e reconciliação.
// Também é o que o endpoint admin de update-status dispara manualmente.
func (s *Sweeper) RunOnce(ctx context.Context) (*domain.SweepResult, *domain.CleanupResult) {
	if s.locker != nil {
		unlock, err := s.locker.Acquire(ctx, "lifecycle-sweep", s.interval)
		if errors.Is(err, domain.ErrLockHeld) {
			s.log.Debug("sweep skipped, another instance holds the lock")
			return nil, nil
		}
		if err != nil {
			// Redis fora não pode parar a varredura: ela é idempotente
			s.log.Warn("sweep lock unavailable, proceeding unlocked", zap.Error(err))
		} else {
			defer unlock()
		}
	}

	sweep, err := s.store.AdvanceStatuses(ctx, s.now())
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		s.log.Error("advance statuses", zap.Error(err))
		return nil, nil
	}
	metrics.SweepRuns.WithLabelValues("ok").Inc()
	if sweep.Promoted > 0 || sweep.AutoFinished > 0 {
		s.log.Info("statuses advanced",
			zap.Int("promoted", sweep.Promoted),
			zap.Int("autoFinished", sweep.AutoFinished),
			zap.Int("betsRefunded", sweep.BetsRefunded),
		)
	}
	if sweep.BetsRefunded > 0 {
		metrics.BetsRefunded.Add(float64(sweep.BetsRefunded))
	}

	cleanup, err := s.store.CleanupProblematicBets(ctx)
	if err != nil {
		s.log.Error("reconciliation cleanup", zap.Error(err))
		return sweep, nil
	}
	if cleanup.Cancelled > 0 || cleanup.Deleted > 0 {
		s.log.Warn("problematic bets cleaned up",
			zap.Int("cancelled", cleanup.Cancelled),
			zap.Int("deleted", cleanup.Deleted),
		)
	}
	return sweep, cleanup
}
