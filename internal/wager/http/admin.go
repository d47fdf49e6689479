package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	"github.com/radieske/esports-bet-engine/internal/wager/dto"
	"github.com/radieske/esports-bet-engine/pkg/contracts/events"
)

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	if req.Name == "" || req.Tag == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "name and tag required"})
		return
	}
	t, err := s.store.CreateTeam(r.Context(), domain.NewTeam{
		Name:          req.Name,
		Tag:           req.Tag,
		Country:       req.Country,
		LogoURL:       req.LogoURL,
		FoundedYear:   req.FoundedYear,
		EarningsCents: req.EarningsCents,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	t, err := s.store.GetTeam(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	t.Name = req.Name
	t.Tag = req.Tag
	t.Country = req.Country
	t.LogoURL = req.LogoURL
	t.FoundedYear = req.FoundedYear
	t.EarningsCents = req.EarningsCents
	if err := s.store.UpdateTeam(r.Context(), t); err != nil {
		s.writeErr(w, err)
		return
	}
	// nomes/tags aparecem nas views de partida; derruba tudo
	s.invalidate(r.Context(), "")
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	m, err := s.store.CreateMatch(r.Context(), domain.NewMatch{
		SideATeam:   req.SideATeam,
		SideBTeam:   req.SideBTeam,
		Game:        req.Game,
		Tournament:  req.Tournament,
		ScheduledAt: req.ScheduledAt,
		SideAOdds:   req.SideAOdds,
		SideBOdds:   req.SideBOdds,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.invalidate(r.Context(), m.ID)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	upd := domain.MatchUpdate{
		Game:        req.Game,
		Tournament:  req.Tournament,
		ScheduledAt: req.ScheduledAt,
		SideAOdds:   req.SideAOdds,
		SideBOdds:   req.SideBOdds,
	}
	if req.Status != nil {
		st := domain.MatchStatus(*req.Status)
		upd.Status = &st
	}
	m, err := s.store.UpdateMatch(r.Context(), id, upd)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteMatch(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	s.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// finalizeMatch declara o vencedor e acerta todas as apostas pendentes da
// partida numa unidade atômica.
func (s *Server) finalizeMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.FinalizeMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	winner := domain.Side(req.WinnerSide)
	if req.MatchID == "" || !winner.Valid() {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "matchId and winnerSide (a|b) required"})
		return
	}

	res, err := s.store.FinalizeMatch(r.Context(), req.MatchID, winner)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	metrics.MatchesSettled.Inc()
	metrics.BetsSettled.WithLabelValues("won").Add(float64(res.Winners))
	metrics.BetsSettled.WithLabelValues("lost").Add(float64(res.Losers))
	metrics.PayoutCents.Add(float64(res.TotalPaidCents))

	if err := s.publ.PublishMatchSettled(r.Context(), events.MatchSettled{
		MatchID:        res.MatchID,
		WinnerSide:     string(res.WinnerSide),
		Winners:        res.Winners,
		Losers:         res.Losers,
		TotalPaidCents: res.TotalPaidCents,
	}); err != nil {
		s.log.Warn("publish match_settled", zap.String("matchId", res.MatchID), zap.Error(err))
	}
	for _, sb := range res.Bets {
		if err := s.publ.PublishBetSettled(r.Context(), events.BetSettled{
			BetID:       sb.BetID,
			UserID:      sb.UserID,
			MatchID:     res.MatchID,
			Outcome:     string(sb.Outcome),
			PayoutCents: sb.PayoutCents,
		}); err != nil {
			s.log.Warn("publish bet_settled", zap.String("betId", sb.BetID), zap.Error(err))
		}
	}

	s.invalidate(r.Context(), req.MatchID)
	writeJSON(w, http.StatusOK, dto.SettlementResponse{
		MatchID:        res.MatchID,
		WinnerSide:     string(res.WinnerSide),
		Winners:        res.Winners,
		Losers:         res.Losers,
		TotalPaidCents: res.TotalPaidCents,
	})
}

// runSweep dispara manualmente a passada que o worker roda no intervalo.
func (s *Server) runSweep(w http.ResponseWriter, r *http.Request) {
	sweep, cleanup := s.sweeper.RunOnce(r.Context())
	if sweep == nil {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "sweep did not run (lock held or storage error)"})
		return
	}
	s.invalidate(r.Context(), "")

	out := struct {
		Sweep   dto.SweepResponse    `json:"sweep"`
		Cleanup *dto.CleanupResponse `json:"cleanup,omitempty"`
	}{
		Sweep: dto.SweepResponse{
			Promoted:     sweep.Promoted,
			AutoFinished: sweep.AutoFinished,
			BetsRefunded: sweep.BetsRefunded,
		},
	}
	if cleanup != nil {
		out.Cleanup = &dto.CleanupResponse{Cancelled: cleanup.Cancelled, Deleted: cleanup.Deleted}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listProblematicBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.store.FindProblematicBets(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func (s *Server) cleanupBets(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.CleanupProblematicBets(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if res.Cancelled > 0 || res.Deleted > 0 {
		metrics.BetsRefunded.Add(float64(res.Cancelled))
	}
	writeJSON(w, http.StatusOK, dto.CleanupResponse{Cancelled: res.Cancelled, Deleted: res.Deleted})
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.CancelBetRequest
	// corpo é opcional
	_ = json.NewDecoder(r.Body).Decode(&req)
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by admin"
	}
	if err := s.store.CancelBet(r.Context(), id, reason); err != nil {
		s.writeErr(w, err)
		return
	}
	metrics.BetsRefunded.Inc()
	if err := s.publ.PublishBetSettled(r.Context(), events.BetSettled{
		BetID:   id,
		Outcome: "cancelled",
		Reason:  reason,
	}); err != nil {
		s.log.Warn("publish bet_settled", zap.String("betId", id), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteBet(r.Context(), id, "deleted by admin"); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
