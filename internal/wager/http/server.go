package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	"github.com/radieske/esports-bet-engine/internal/wager/dto"
	"github.com/radieske/esports-bet-engine/internal/wager/lifecycle"
	"github.com/radieske/esports-bet-engine/internal/wager/oddscache"
	"github.com/radieske/esports-bet-engine/pkg/contracts/events"
)

// Publisher emite os eventos do motor após o commit.
type Publisher interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
	PublishBetSettled(context.Context, events.BetSettled) error
	PublishMatchSettled(context.Context, events.MatchSettled) error
}

// Server expõe a API pública e o surface admin do motor de apostas.
// Cache é opcional (nil desliga); Publisher nunca é nil (use NopPublisher).
type Server struct {
	log      *zap.Logger
	store    domain.Store
	cache    *oddscache.Cache
	cacheTTL time.Duration
	publ     Publisher
	sweeper  *lifecycle.Sweeper
}

func NewServer(log *zap.Logger, store domain.Store, cache *oddscache.Cache, cacheTTL time.Duration, publ Publisher, sweeper *lifecycle.Sweeper) *Server {
	return &Server{log: log, store: store, cache: cache, cacheTTL: cacheTTL, publ: publ, sweeper: sweeper}
}

// Router retorna o roteador chi com as rotas públicas e de admin.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/v1/matches", s.listMatches)
	r.Get("/v1/matches/{id}", s.getMatch)
	r.Get("/v1/teams", s.listTeams)

	r.Post("/v1/bets", s.placeBet)
	r.Get("/v1/bets", s.listBets)

	r.Get("/v1/wallet", s.getWallet)
	r.Post("/v1/wallet", s.adjustWallet)

	r.Get("/v1/stats", s.getStats)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Post("/teams", s.createTeam)
		r.Put("/teams/{id}", s.updateTeam)
		r.Delete("/teams/{id}", s.deleteTeam)

		r.Post("/matches", s.createMatch)
		r.Put("/matches/{id}", s.updateMatch)
		r.Delete("/matches/{id}", s.deleteMatch)
		r.Post("/matches/finalize", s.finalizeMatch)
		r.Post("/matches/update-status", s.runSweep)

		r.Get("/bets/problematic", s.listProblematicBets)
		r.Post("/bets/cleanup", s.cleanupBets)
		r.Post("/bets/{id}/cancel", s.cancelBet)
		r.Delete("/bets/{id}", s.deleteBet)
	})

	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr traduz a taxonomia de erros do domínio para status HTTP.
// Validação e saldo insuficiente: 400; não encontrado: 404; estado
// inválido / re-acerto: 409; o resto é falha de storage: 500.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientFunds):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrAlreadySettled):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

// invalidate derruba o cache de partidas depois de qualquer escrita de admin.
func (s *Server) invalidate(ctx context.Context, matchID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, matchID); err != nil {
		s.log.Warn("cache invalidate", zap.Error(err))
	}
}
