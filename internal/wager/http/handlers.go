package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/metrics"
	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	"github.com/radieske/esports-bet-engine/internal/wager/dto"
	"github.com/radieske/esports-bet-engine/pkg/contracts/events"
)

// listMatches retorna todas as partidas com times e odds correntes,
// preferencialmente do cache.
func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		var cached []dto.MatchResponse
		if ok, _ := s.cache.GetList(r.Context(), &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	views, err := s.store.ListMatches(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]dto.MatchResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.FromMatchView(v))
	}

	if s.cache != nil {
		_ = s.cache.SetList(r.Context(), out, s.cacheTTL)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.cache != nil {
		var cached dto.MatchResponse
		if ok, _ := s.cache.GetMatch(r.Context(), id, &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	v, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := dto.FromMatchView(*v)

	if s.cache != nil {
		_ = s.cache.SetMatch(r.Context(), id, out, s.cacheTTL)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// placeBet aceita uma aposta contra as odds correntes da partida.
// Provisiona o usuário na primeira visita (bônus inicial via ledger).
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	if req.UserRef == "" || req.MatchID == "" || req.Side == "" || req.StakeCents <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userRef, matchId, side and positive stake_cents required"})
		return
	}

	if _, err := s.store.GetOrCreateUser(r.Context(), req.UserRef, req.UserRef, ""); err != nil {
		s.writeErr(w, err)
		return
	}

	bet, newBalance, err := s.store.PlaceBet(r.Context(), req.UserRef, req.MatchID, domain.Side(req.Side), req.StakeCents)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	metrics.BetsPlaced.Inc()

	// evento é best-effort: a aposta já está committed
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:       bet.ID,
		UserRef:     req.UserRef,
		MatchID:     bet.MatchID,
		Side:        string(bet.Side),
		StakeCents:  bet.StakeCents,
		Odds:        bet.Odds,
		PayoutCents: bet.PotentialPayoutCents,
	}); err != nil {
		s.log.Warn("publish bet_placed", zap.String("betId", bet.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		BetID:                bet.ID,
		Status:               string(bet.Status),
		OddsLocked:           bet.Odds,
		PotentialPayoutCents: bet.PotentialPayoutCents,
		NewBalanceCents:      newBalance,
	})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userRef := r.URL.Query().Get("userRef")
	if userRef == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userRef required"})
		return
	}
	if _, err := s.store.GetOrCreateUser(r.Context(), userRef, userRef, ""); err != nil {
		s.writeErr(w, err)
		return
	}

	views, err := s.store.GetBetsForUser(r.Context(), userRef)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]dto.BetResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.FromBetView(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// getWallet retorna saldo e histórico de transações, mais recentes primeiro.
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userRef := r.URL.Query().Get("userRef")
	if userRef == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userRef required"})
		return
	}
	u, err := s.store.GetOrCreateUser(r.Context(), userRef, userRef, "")
	if err != nil {
		s.writeErr(w, err)
		return
	}

	txns, err := s.store.GetTransactions(r.Context(), u.ID, 100)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := dto.WalletResponse{UserRef: userRef, BalanceCents: u.BalanceCents, Transactions: make([]dto.TransactionResponse, 0, len(txns))}
	for _, t := range txns {
		out.Transactions = append(out.Transactions, dto.FromTransaction(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// adjustWallet é o ajuste administrativo de ledger (deposit/withdrawal/refund).
func (s *Server) adjustWallet(w http.ResponseWriter, r *http.Request) {
	var req dto.WalletAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	if req.UserRef == "" || req.AmountCents <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userRef and positive amount_cents required"})
		return
	}
	txType := domain.TxType(req.Type)
	if !txType.Valid() || txType == domain.TxBet || txType == domain.TxWin || txType == domain.TxInitialBonus {
		// bet/win/initial_bonus só nascem dos fluxos internos
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: fmt.Sprintf("type %q not allowed here", req.Type)})
		return
	}

	u, err := s.store.GetOrCreateUser(r.Context(), req.UserRef, req.UserRef, "")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	txn, err := s.store.RecordTransaction(r.Context(), u.ID, txType, req.AmountCents, req.Description, req.ReferenceID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromTransaction(*txn))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	userRef := r.URL.Query().Get("userRef")
	if userRef == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userRef required"})
		return
	}
	if _, err := s.store.GetOrCreateUser(r.Context(), userRef, userRef, ""); err != nil {
		s.writeErr(w, err)
		return
	}

	st, err := s.store.GetUserStats(r.Context(), userRef)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatsResponse{
		UserRef:           st.ExternalID,
		DisplayName:       st.DisplayName,
		BalanceCents:      st.BalanceCents,
		TotalBets:         st.TotalBets,
		Wins:              st.Wins,
		Losses:            st.Losses,
		Pending:           st.Pending,
		WinRate:           st.WinRate,
		TotalWageredCents: st.TotalWageredCents,
		TotalWonCents:     st.TotalWonCents,
		NetProfitCents:    st.NetProfitCents,
	})
}
