package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// Ordem de locks em todo o pacote: matchMu -> userMu -> s.mu.

// PlaceBet congela a odd corrente, insere a aposta pendente e debita o stake
// sob os mutexes da partida e do usuário, tudo ou nada.
func (s *Store) PlaceBet(ctx context.Context, externalID, matchID string, side domain.Side, stakeCents int64) (*domain.Bet, int64, error) {
	if !side.Valid() {
		return nil, 0, fmt.Errorf("%w: side must be %q or %q", domain.ErrValidation, domain.SideA, domain.SideB)
	}
	if stakeCents <= 0 {
		return nil, 0, fmt.Errorf("%w: stake must be positive", domain.ErrValidation)
	}

	s.mu.RLock()
	userID, ok := s.usersByExt[externalID]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, fmt.Errorf("user %s: %w", externalID, domain.ErrNotFound)
	}

	mLock := s.lockMatch(matchID)
	mLock.Lock()
	defer mLock.Unlock()
	uLock := s.lockUser(userID)
	uLock.Lock()
	defer uLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return nil, 0, fmt.Errorf("match %s: %w", matchID, domain.ErrNotFound)
	}
	if !m.AcceptsBets() {
		return nil, 0, fmt.Errorf("%w: match is %s, no longer accepting bets", domain.ErrInvalidState, m.Status)
	}
	u := s.users[userID]

	odds := m.OddsFor(side)
	b := &domain.Bet{
		ID:                   uuid.NewString(),
		UserID:               userID,
		MatchID:              matchID,
		Side:                 side,
		StakeCents:           stakeCents,
		Odds:                 odds,
		PotentialPayoutCents: domain.PotentialPayoutCents(stakeCents, odds),
		Status:               domain.BetPending,
		PlacedAt:             time.Now().UTC(),
	}

	txn, err := s.applyTxnLocked(u, domain.TxBet, stakeCents, "stake on match "+matchID, &b.ID)
	if err != nil {
		return nil, 0, err
	}
	s.bets[b.ID] = b

	out := *b
	return &out, txn.BalanceAfterCents, nil
}

func (s *Store) GetBet(ctx context.Context, id string) (*domain.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *Store) GetBetsForUser(ctx context.Context, externalID string) ([]domain.BetView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.usersByExt[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	ids := s.sortedBetIDsLocked(func(b *domain.Bet) bool { return b.UserID == userID })
	out := make([]domain.BetView, 0, len(ids))
	// mais recentes primeiro
	for i := len(ids) - 1; i >= 0; i-- {
		b := s.bets[ids[i]]
		v := domain.BetView{Bet: *b}
		if m, ok := s.matches[b.MatchID]; ok {
			v.Game = m.Game
			v.Tournament = m.Tournament
			v.MatchStatus = m.Status
			v.ScheduledAt = m.ScheduledAt
			if ta, ok := s.teams[m.SideATeam]; ok {
				v.SideATeam = ta.Name
			}
			if tb, ok := s.teams[m.SideBTeam]; ok {
				v.SideBTeam = tb.Name
			}
			if b.Side == domain.SideA {
				v.ChosenTeam = v.SideATeam
			} else {
				v.ChosenTeam = v.SideBTeam
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// cancelBet cancela uma aposta pendente devolvendo o stake. Pré-condição:
// nenhum lock segurado.
func (s *Store) cancelBet(betID, reason string) error {
	s.mu.RLock()
	b, ok := s.bets[betID]
	if !ok {
		s.mu.RUnlock()
		return domain.ErrNotFound
	}
	userID := b.UserID
	s.mu.RUnlock()

	uLock := s.lockUser(userID)
	uLock.Lock()
	defer uLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok = s.bets[betID]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status != domain.BetPending {
		return fmt.Errorf("%w: bet %s is %s, only pending bets can be cancelled", domain.ErrInvalidState, b.ID, b.Status)
	}
	if _, err := s.applyTxnLocked(s.users[userID], domain.TxRefund, b.StakeCents, reason, &b.ID); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.Status = domain.BetCancelled
	b.ResolvedAt = &now
	return nil
}

func (s *Store) CancelBet(ctx context.Context, betID, reason string) error {
	return s.cancelBet(betID, reason)
}

// DeleteBet remove a aposta e as transações que a referenciam. Pendente é
// reembolsada antes, com o refund referenciando a aposta: a limpeza então
// apaga débito e compensação juntos, efeito líquido zero sobre o ledger.
func (s *Store) DeleteBet(ctx context.Context, betID, reason string) error {
	s.mu.RLock()
	b, ok := s.bets[betID]
	if !ok {
		s.mu.RUnlock()
		return domain.ErrNotFound
	}
	userID := b.UserID
	s.mu.RUnlock()

	uLock := s.lockUser(userID)
	uLock.Lock()
	defer uLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok = s.bets[betID]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status == domain.BetPending {
		desc := fmt.Sprintf("refund for deleted bet %s: %s", b.ID, reason)
		if _, err := s.applyTxnLocked(s.users[userID], domain.TxRefund, b.StakeCents, desc, &b.ID); err != nil {
			return err
		}
	}
	kept := s.txns[userID][:0]
	for _, t := range s.txns[userID] {
		if t.BetID == nil || *t.BetID != betID {
			kept = append(kept, t)
		}
	}
	s.txns[userID] = kept
	delete(s.bets, betID)
	return nil
}

// FinalizeMatch acerta a partida contra o vencedor declarado. O mutex da
// partida garante exclusividade por partida; re-acerto falha com
// ErrAlreadySettled.
func (s *Store) FinalizeMatch(ctx context.Context, matchID string, winner domain.Side) (*domain.SettlementResult, error) {
	if !winner.Valid() {
		return nil, fmt.Errorf("%w: winner must be %q or %q", domain.ErrValidation, domain.SideA, domain.SideB)
	}

	mLock := s.lockMatch(matchID)
	mLock.Lock()
	defer mLock.Unlock()

	s.mu.RLock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("match %s: %w", matchID, domain.ErrNotFound)
	}
	if m.WinnerSide != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("match %s already settled as winner=%s: %w", matchID, *m.WinnerSide, domain.ErrAlreadySettled)
	}
	if m.Status.Terminal() {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: match %s is %s", domain.ErrInvalidState, matchID, m.Status)
	}
	pending := s.sortedBetIDsLocked(func(b *domain.Bet) bool {
		return b.MatchID == matchID && b.Status == domain.BetPending
	})
	s.mu.RUnlock()

	res := &domain.SettlementResult{MatchID: matchID, WinnerSide: winner}
	for _, betID := range pending {
		if err := s.settleOne(betID, winner, res); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	m.Status = domain.MatchFinished
	w := winner
	m.WinnerSide = &w
	m.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()
	return res, nil
}

func (s *Store) settleOne(betID string, winner domain.Side, res *domain.SettlementResult) error {
	s.mu.RLock()
	b, ok := s.bets[betID]
	if !ok {
		// apagada entre o snapshot de pendentes e o acerto
		s.mu.RUnlock()
		return nil
	}
	userID := b.UserID
	s.mu.RUnlock()

	uLock := s.lockUser(userID)
	uLock.Lock()
	defer uLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	b = s.bets[betID]
	if b == nil || b.Status != domain.BetPending {
		return nil
	}
	outcome := domain.ResolveBet(b.Side, winner)
	settled := domain.SettledBet{BetID: b.ID, UserID: b.UserID, Outcome: outcome}
	if outcome == domain.BetWon {
		desc := fmt.Sprintf("winnings on match %s at odds %.2f", b.MatchID, b.Odds)
		if _, err := s.applyTxnLocked(s.users[userID], domain.TxWin, b.PotentialPayoutCents, desc, &b.ID); err != nil {
			return err
		}
		settled.PayoutCents = b.PotentialPayoutCents
		res.Winners++
		res.TotalPaidCents += b.PotentialPayoutCents
	} else {
		res.Losers++
	}
	res.Bets = append(res.Bets, settled)
	now := time.Now().UTC()
	b.Status = outcome
	b.ResolvedAt = &now
	return nil
}

// refundPendingBets cancela toda aposta pendente da partida. Usado pelo
// timeout automático e pelo cancelamento explícito.
func (s *Store) refundPendingBets(matchID, reason string) (int, error) {
	s.mu.RLock()
	pending := s.sortedBetIDsLocked(func(b *domain.Bet) bool {
		return b.MatchID == matchID && b.Status == domain.BetPending
	})
	s.mu.RUnlock()

	for _, id := range pending {
		if err := s.cancelBet(id, reason); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}

// AdvanceStatuses aplica as transições automáticas a toda partida não
// terminal. Idempotente: o status é rechecado sob o mutex da partida.
func (s *Store) AdvanceStatuses(ctx context.Context, now time.Time) (*domain.SweepResult, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.matches))
	for id, m := range s.matches {
		if !m.Status.Terminal() {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	res := &domain.SweepResult{}
	for _, id := range ids {
		if err := s.advanceOne(id, now, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Store) advanceOne(matchID string, now time.Time, res *domain.SweepResult) error {
	mLock := s.lockMatch(matchID)
	mLock.Lock()
	defer mLock.Unlock()

	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	next, changed := domain.NextMatchStatus(m, now, LiveTimeout)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	m.Status = next
	m.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	if next == domain.MatchFinished {
		refunded, err := s.refundPendingBets(matchID, "match finished without result")
		if err != nil {
			return err
		}
		res.AutoFinished++
		res.BetsRefunded += refunded
	} else {
		res.Promoted++
	}
	return nil
}

// FindProblematicBets lista apostas cuja partida sumiu ou que, ainda
// pendentes, têm lado desconhecido ou partida num status irreconhecível.
// Aposta já resolvida com lado/status esquisito fica de fora: a limpeza
// não teria o que fazer com ela e a listagem nunca convergiria.
func (s *Store) FindProblematicBets(ctx context.Context) ([]domain.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedBetIDsLocked(func(b *domain.Bet) bool {
		m, ok := s.matches[b.MatchID]
		if !ok {
			return true
		}
		if b.Status != domain.BetPending {
			return false
		}
		if !b.Side.Valid() {
			return true
		}
		switch m.Status {
		case domain.MatchScheduled, domain.MatchLive, domain.MatchFinished, domain.MatchCancelled:
			return false
		}
		return true
	})
	out := make([]domain.Bet, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.bets[id])
	}
	return out, nil
}

func (s *Store) CleanupProblematicBets(ctx context.Context) (*domain.CleanupResult, error) {
	problematic, err := s.FindProblematicBets(ctx)
	if err != nil {
		return nil, err
	}

	res := &domain.CleanupResult{}
	for i := range problematic {
		betID := problematic[i].ID

		s.mu.RLock()
		b, ok := s.bets[betID]
		var matchExists bool
		if ok {
			_, matchExists = s.matches[b.MatchID]
		}
		var status domain.BetStatus
		if ok {
			status = b.Status
		}
		s.mu.RUnlock()
		if !ok {
			continue
		}

		if !matchExists {
			if err := s.DeleteBet(context.Background(), betID, "orphaned: match deleted"); err != nil {
				return res, err
			}
			res.Deleted++
			continue
		}
		if status == domain.BetPending {
			if err := s.cancelBet(betID, "reconciliation: inconsistent match state"); err != nil {
				return res, err
			}
			res.Cancelled++
		}
	}
	return res, nil
}
