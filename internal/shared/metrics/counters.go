package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negócio do motor de apostas, expostos em /metrics.
var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_bets_placed_total",
		Help: "Bets accepted by the wagering engine",
	})

	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wager_bets_settled_total",
		Help: "Bets resolved by settlement, labeled by outcome",
	}, []string{"outcome"})

	BetsRefunded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_bets_refunded_total",
		Help: "Pending bets refunded by timeout, cancellation or reconciliation",
	})

	MatchesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_matches_settled_total",
		Help: "Matches finalized with a declared winner",
	})

	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wager_lifecycle_sweeps_total",
		Help: "Lifecycle sweep executions, labeled by result",
	}, []string{"result"})

	PayoutCents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_payout_cents_total",
		Help: "Total winnings paid out, in cents",
	})
)
