package memory

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

var seedSeq atomic.Int64

// seedMatch cria dois times e uma partida agendada entre eles.
func seedMatch(t *testing.T, s *Store, oddsA, oddsB float64, scheduledAt time.Time) *domain.Match {
	t.Helper()
	ctx := context.Background()
	n := strconv.FormatInt(seedSeq.Add(1), 10)

	ta, err := s.CreateTeam(ctx, domain.NewTeam{Name: "Alpha " + n, Tag: "ALP" + n})
	require.NoError(t, err)
	tb, err := s.CreateTeam(ctx, domain.NewTeam{Name: "Bravo " + n, Tag: "BRV" + n})
	require.NoError(t, err)

	m, err := s.CreateMatch(ctx, domain.NewMatch{
		SideATeam:   ta.ID,
		SideBTeam:   tb.ID,
		Game:        "CS2",
		Tournament:  "Test Cup",
		ScheduledAt: scheduledAt,
		SideAOdds:   oddsA,
		SideBOdds:   oddsB,
	})
	require.NoError(t, err)
	return m
}

// conservation confere a lei de conservação: saldo == soma dos efeitos do ledger.
func conservation(t *testing.T, s *Store, userID string) {
	t.Helper()
	bal, err := s.GetBalance(context.Background(), userID)
	require.NoError(t, err)

	txns, err := s.GetTransactions(context.Background(), userID, 1000)
	require.NoError(t, err)
	var sum int64
	for _, tx := range txns {
		sum += tx.AmountCents
	}
	require.Equal(t, bal, sum, "balance must equal the sum of ledger effects")
}

func TestGetOrCreateUser_WelcomeBonus(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, u.BalanceCents)

	// segunda visita não re-credita o bônus
	again, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, InitialBonusCents, again.BalanceCents)

	txns, err := s.GetTransactions(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, domain.TxInitialBonus, txns[0].Type)
	conservation(t, s, u.ID)
}

func TestPlaceBet_DebitsStakeAndFreezesOdds(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 1.85, 1.95, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	b, newBal, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 5000)
	require.NoError(t, err)
	require.Equal(t, domain.BetPending, b.Status)
	require.Equal(t, 1.85, b.Odds)
	require.Equal(t, int64(9250), b.PotentialPayoutCents)
	require.Equal(t, u.BalanceCents-5000, newBal)

	// mexer na odd da partida depois não altera o contrato da aposta
	newOdds := 3.5
	_, err = s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{SideAOdds: &newOdds})
	require.NoError(t, err)

	got, err := s.GetBet(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 1.85, got.Odds)
	require.Equal(t, int64(9250), got.PotentialPayoutCents)
	conservation(t, s, u.ID)
}

func TestPlaceBet_Validation(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 1.85, 1.95, time.Now().Add(time.Hour))
	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		ext     string
		matchID string
		side    domain.Side
		stake   int64
		want    error
	}{
		{"lado desconhecido", "ext-1", m.ID, domain.Side("x"), 1000, domain.ErrValidation},
		{"stake zero", "ext-1", m.ID, domain.SideA, 0, domain.ErrValidation},
		{"stake negativo", "ext-1", m.ID, domain.SideA, -50, domain.ErrValidation},
		{"usuario inexistente", "ghost", m.ID, domain.SideA, 1000, domain.ErrNotFound},
		{"partida inexistente", "ext-1", "nope", domain.SideA, 1000, domain.ErrNotFound},
		{"saldo insuficiente", "ext-1", m.ID, domain.SideA, InitialBonusCents + 1, domain.ErrInsufficientFunds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.PlaceBet(ctx, tc.ext, tc.matchID, tc.side, tc.stake)
			require.ErrorIs(t, err, tc.want)
		})
	}

	// partida terminal não aceita aposta
	cancelled := domain.MatchCancelled
	_, err = s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{Status: &cancelled})
	require.NoError(t, err)
	_, _, err = s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 1000)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestFinalizeMatch_WinnerPaid(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 1.85, 1.95, time.Now().Add(time.Hour))

	winner, err := s.GetOrCreateUser(ctx, "winner", "W", "")
	require.NoError(t, err)
	loser, err := s.GetOrCreateUser(ctx, "loser", "L", "")
	require.NoError(t, err)

	wb, _, err := s.PlaceBet(ctx, "winner", m.ID, domain.SideA, 5000)
	require.NoError(t, err)
	lb, _, err := s.PlaceBet(ctx, "loser", m.ID, domain.SideB, 3000)
	require.NoError(t, err)

	res, err := s.FinalizeMatch(ctx, m.ID, domain.SideA)
	require.NoError(t, err)
	require.Equal(t, 1, res.Winners)
	require.Equal(t, 1, res.Losers)
	require.Equal(t, int64(9250), res.TotalPaidCents)
	require.Len(t, res.Bets, 2)
	outcomes := map[string]domain.SettledBet{}
	for _, sb := range res.Bets {
		outcomes[sb.BetID] = sb
	}
	require.Equal(t, domain.BetWon, outcomes[wb.ID].Outcome)
	require.Equal(t, int64(9250), outcomes[wb.ID].PayoutCents)
	require.Equal(t, domain.BetLost, outcomes[lb.ID].Outcome)

	gotW, err := s.GetBet(ctx, wb.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetWon, gotW.Status)
	require.NotNil(t, gotW.ResolvedAt)

	gotL, err := s.GetBet(ctx, lb.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetLost, gotL.Status)

	// vencedor recebe o payout congelado; perdedor não ganha transação nova
	wBal, err := s.GetBalance(ctx, winner.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents-5000+9250, wBal)

	lBal, err := s.GetBalance(ctx, loser.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents-3000, lBal)

	lTxns, err := s.GetTransactions(ctx, loser.ID, 10)
	require.NoError(t, err)
	require.Len(t, lTxns, 2) // bônus + stake, nada do acerto

	wTxns, err := s.GetTransactions(ctx, winner.ID, 10)
	require.NoError(t, err)
	require.Equal(t, domain.TxWin, wTxns[0].Type)
	require.Equal(t, int64(9250), wTxns[0].AmountCents)

	conservation(t, s, winner.ID)
	conservation(t, s, loser.ID)

	mv, err := s.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, mv.Status)
	require.NotNil(t, mv.WinnerSide)
	require.Equal(t, domain.SideA, *mv.WinnerSide)
}

func TestFinalizeMatch_ExactlyOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	_, _, err = s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 1000)
	require.NoError(t, err)

	_, err = s.FinalizeMatch(ctx, m.ID, domain.SideA)
	require.NoError(t, err)

	// re-acerto não paga de novo, nem com outro vencedor
	_, err = s.FinalizeMatch(ctx, m.ID, domain.SideA)
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
	_, err = s.FinalizeMatch(ctx, m.ID, domain.SideB)
	require.ErrorIs(t, err, domain.ErrAlreadySettled)

	u, err := s.GetUserByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents-1000+2000, u.BalanceCents)
	conservation(t, s, u.ID)
}

func TestFinalizeMatch_CancelledMatchRejected(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	cancelled := domain.MatchCancelled
	_, err := s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{Status: &cancelled})
	require.NoError(t, err)

	_, err = s.FinalizeMatch(ctx, m.ID, domain.SideA)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConcurrentPlaceBet_NoOverdraft(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 1.5, 2.5, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	// 50 apostas de 10% do saldo disputando ao mesmo tempo: exatamente 10 passam
	const attempts = 50
	stake := InitialBonusCents / 10

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, stake)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			rejected++
		}
	}
	require.Equal(t, 10, ok)
	require.Equal(t, attempts-10, rejected)

	bal, err := s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), bal)
	conservation(t, s, u.ID)
}

func TestCancelBet_RefundsOnlyPending(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 4000)
	require.NoError(t, err)

	require.NoError(t, s.CancelBet(ctx, b.ID, "user asked"))

	got, err := s.GetBet(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetCancelled, got.Status)

	bal, err := s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)

	// segundo cancelamento não reembolsa de novo
	err = s.CancelBet(ctx, b.ID, "again")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	bal, err = s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)
	conservation(t, s, u.ID)
}

func TestMatchCancelled_RefundsPendingBets(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideB, 2500)
	require.NoError(t, err)

	cancelled := domain.MatchCancelled
	_, err = s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{Status: &cancelled})
	require.NoError(t, err)

	got, err := s.GetBet(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetCancelled, got.Status)

	bal, err := s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)
	conservation(t, s, u.ID)
}

func TestUpdateMatch_ManualStatusRestricted(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 1000)
	require.NoError(t, err)

	// finished na mão deixaria a pendente presa numa partida terminal
	// sem vencedor nem refund; só finalize ou o timeout chegam lá
	for _, st := range []domain.MatchStatus{domain.MatchFinished, domain.MatchStatus("halftime")} {
		_, err := s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{Status: &st})
		require.ErrorIs(t, err, domain.ErrValidation)
	}

	live := domain.MatchLive
	upd, err := s.UpdateMatch(ctx, m.ID, domain.MatchUpdate{Status: &live})
	require.NoError(t, err)
	require.Equal(t, domain.MatchLive, upd.Status)

	got, err := s.GetBet(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetPending, got.Status)
}

func TestAdvanceStatuses_PromotesAndAutoFinishes(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now().UTC()

	m := seedMatch(t, s, 2.0, 2.0, base)
	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 7000)
	require.NoError(t, err)

	// horário alcançado: scheduled -> live
	res, err := s.AdvanceStatuses(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, res.Promoted)
	require.Equal(t, 0, res.AutoFinished)

	mv, err := s.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchLive, mv.Status)

	// dentro da janela: nada muda
	res, err = s.AdvanceStatuses(ctx, base.Add(LiveTimeout))
	require.NoError(t, err)
	require.Zero(t, res.Promoted)
	require.Zero(t, res.AutoFinished)

	// janela estourada: encerra sem vencedor e devolve o stake
	res, err = s.AdvanceStatuses(ctx, base.Add(LiveTimeout+time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, res.AutoFinished)
	require.Equal(t, 1, res.BetsRefunded)

	mv, err = s.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, mv.Status)
	require.Nil(t, mv.WinnerSide)

	got, err := s.GetBet(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BetCancelled, got.Status)

	u, err := s.GetUserByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, u.BalanceCents)
	conservation(t, s, u.ID)

	// varredura é idempotente: repetir não reembolsa de novo
	res, err = s.AdvanceStatuses(ctx, base.Add(LiveTimeout+2*time.Minute))
	require.NoError(t, err)
	require.Zero(t, res.AutoFinished)
	require.Zero(t, res.BetsRefunded)
}

func TestAdvanceStatuses_SkipsFutureAndTerminal(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now().UTC()

	future := seedMatch(t, s, 2.0, 2.0, base.Add(2*time.Hour))
	stale := seedMatch(t, s, 2.0, 2.0, base.Add(-2*time.Hour))

	// agendada muito no passado vai direto a finished
	res, err := s.AdvanceStatuses(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 1, res.AutoFinished)

	fv, err := s.GetMatch(ctx, future.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchScheduled, fv.Status)

	sv, err := s.GetMatch(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, sv.Status)
}

func TestSettleOne_BetDeletedMidSettlement(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 1000)
	require.NoError(t, err)

	// aposta some entre o snapshot de pendentes e o acerto individual
	// (admin delete concorrente): o acerto pula sem tocar no resultado
	require.NoError(t, s.DeleteBet(ctx, b.ID, "deleted by admin"))
	res := &domain.SettlementResult{MatchID: m.ID, WinnerSide: domain.SideA}
	require.NoError(t, s.settleOne(b.ID, domain.SideA, res))
	require.Zero(t, res.Winners)
	require.Zero(t, res.Losers)
	require.Empty(t, res.Bets)
}

func TestCleanup_OrphanedBetRefundedOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 6000)
	require.NoError(t, err)

	// provoca o estado inconsistente: partida some por fora da API
	s.mu.Lock()
	delete(s.matches, m.ID)
	s.mu.Unlock()

	found, err := s.FindProblematicBets(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, b.ID, found[0].ID)

	res, err := s.CleanupProblematicBets(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Deleted)
	require.Zero(t, res.Cancelled)

	_, err = s.GetBet(ctx, b.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	bal, err := s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)
	conservation(t, s, u.ID)

	// repetir a varredura não encontra nem reembolsa nada
	res, err = s.CleanupProblematicBets(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Deleted)
	require.Zero(t, res.Cancelled)

	bal, err = s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)
}

func TestCleanup_ConvergesOnBadSide(t *testing.T) {
	s := New()
	ctx := context.Background()

	m1 := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))
	m2 := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))
	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	won, _, err := s.PlaceBet(ctx, "ext-1", m1.ID, domain.SideA, 1000)
	require.NoError(t, err)
	_, err = s.FinalizeMatch(ctx, m1.ID, domain.SideA)
	require.NoError(t, err)

	pending, _, err := s.PlaceBet(ctx, "ext-1", m2.ID, domain.SideA, 2000)
	require.NoError(t, err)

	s.mu.Lock()
	s.bets[won.ID].Side = domain.Side("x")
	s.bets[pending.ID].Side = domain.Side("x")
	s.mu.Unlock()

	// só a pendente é acionável; a resolvida não volta a cada varredura
	found, err := s.FindProblematicBets(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, pending.ID, found[0].ID)

	res, err := s.CleanupProblematicBets(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Cancelled)
	require.Zero(t, res.Deleted)

	found, err = s.FindProblematicBets(ctx)
	require.NoError(t, err)
	require.Empty(t, found)
	conservation(t, s, u.ID)
}

func TestDeleteBet_PurgeNetsToZero(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	u, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)
	b, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 6000)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBet(ctx, b.ID, "admin cleanup"))

	bal, err := s.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, InitialBonusCents, bal)

	// débito e refund referenciam a aposta e saem juntos na purga:
	// sobra só o bônus e o ledger continua fechando com o saldo
	txns, err := s.GetTransactions(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, domain.TxInitialBonus, txns[0].Type)
	conservation(t, s, u.ID)
}

func TestGetUserStats(t *testing.T) {
	s := New()
	ctx := context.Background()

	m1 := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))
	m2 := seedMatch(t, s, 1.5, 2.5, time.Now().Add(2*time.Hour))

	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	_, _, err = s.PlaceBet(ctx, "ext-1", m1.ID, domain.SideA, 1000)
	require.NoError(t, err)
	_, _, err = s.PlaceBet(ctx, "ext-1", m2.ID, domain.SideB, 2000)
	require.NoError(t, err)

	_, err = s.FinalizeMatch(ctx, m1.ID, domain.SideA)
	require.NoError(t, err)

	st, err := s.GetUserStats(ctx, "ext-1")
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalBets)
	require.Equal(t, 1, st.Wins)
	require.Equal(t, 0, st.Losses)
	require.Equal(t, 1, st.Pending)
	require.Equal(t, 1.0, st.WinRate)
	require.Equal(t, int64(3000), st.TotalWageredCents)
	require.Equal(t, int64(2000), st.TotalWonCents)
}

func TestGetBetsForUser_NewestFirstWithContext(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := seedMatch(t, s, 2.0, 2.0, time.Now().Add(time.Hour))

	_, err := s.GetOrCreateUser(ctx, "ext-1", "Alice", "")
	require.NoError(t, err)

	first, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideA, 1000)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, _, err := s.PlaceBet(ctx, "ext-1", m.ID, domain.SideB, 2000)
	require.NoError(t, err)

	views, err := s.GetBetsForUser(ctx, "ext-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, second.ID, views[0].ID)
	require.Equal(t, first.ID, views[1].ID)
	require.Equal(t, "CS2", views[0].Game)
	require.NotEmpty(t, views[0].ChosenTeam)
}
