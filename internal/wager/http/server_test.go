package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	"github.com/radieske/esports-bet-engine/internal/wager/dto"
	"github.com/radieske/esports-bet-engine/internal/wager/lifecycle"
	"github.com/radieske/esports-bet-engine/internal/wager/producer"
	"github.com/radieske/esports-bet-engine/internal/wager/store/memory"
)

type fixture struct {
	store  *memory.Store
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	sw := lifecycle.NewSweeper(zap.NewNop(), st, nil, time.Minute)
	api := NewServer(zap.NewNop(), st, nil, 0, producer.NopPublisher{}, sw)
	ts := httptest.NewServer(api.Router())
	t.Cleanup(ts.Close)
	return &fixture{store: st, server: ts}
}

func (f *fixture) seedMatch(t *testing.T, oddsA, oddsB float64) *domain.Match {
	t.Helper()
	ctx := context.Background()
	ta, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Alpha " + t.Name(), Tag: "A-" + t.Name()})
	require.NoError(t, err)
	tb, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Bravo " + t.Name(), Tag: "B-" + t.Name()})
	require.NoError(t, err)
	m, err := f.store.CreateMatch(ctx, domain.NewMatch{
		SideATeam: ta.ID, SideBTeam: tb.ID,
		Game: "CS2", Tournament: "Cup",
		ScheduledAt: time.Now().Add(time.Hour),
		SideAOdds:   oddsA, SideBOdds: oddsB,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPlaceBetFlow(t *testing.T) {
	f := newFixture(t)
	m := f.seedMatch(t, 1.85, 1.95)

	resp := f.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserRef: "alice", MatchID: m.ID, Side: "a", StakeCents: 5000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[dto.PlaceBetResponse](t, resp)
	require.Equal(t, "pending", placed.Status)
	require.Equal(t, 1.85, placed.OddsLocked)
	require.Equal(t, int64(9250), placed.PotentialPayoutCents)
	require.Equal(t, memory.InitialBonusCents-5000, placed.NewBalanceCents)

	// lista de apostas do usuário com contexto de partida
	resp = f.get(t, "/v1/bets?userRef=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bets := decode[[]dto.BetResponse](t, resp)
	require.Len(t, bets, 1)
	require.Equal(t, placed.BetID, bets[0].ID)
	require.Equal(t, "CS2", bets[0].Game)

	// carteira reflete o débito e o histórico
	resp = f.get(t, "/v1/wallet?userRef=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wallet := decode[dto.WalletResponse](t, resp)
	require.Equal(t, memory.InitialBonusCents-5000, wallet.BalanceCents)
	require.Len(t, wallet.Transactions, 2)
	require.Equal(t, "bet", wallet.Transactions[0].Type)
}

func TestPlaceBetRejections(t *testing.T) {
	f := newFixture(t)
	m := f.seedMatch(t, 2.0, 2.0)

	tests := []struct {
		name string
		req  dto.PlaceBetRequest
		code int
	}{
		{"sem userRef", dto.PlaceBetRequest{MatchID: m.ID, Side: "a", StakeCents: 100}, http.StatusBadRequest},
		{"stake zero", dto.PlaceBetRequest{UserRef: "bob", MatchID: m.ID, Side: "a"}, http.StatusBadRequest},
		{"lado invalido", dto.PlaceBetRequest{UserRef: "bob", MatchID: m.ID, Side: "c", StakeCents: 100}, http.StatusBadRequest},
		{"partida inexistente", dto.PlaceBetRequest{UserRef: "bob", MatchID: "nope", Side: "a", StakeCents: 100}, http.StatusNotFound},
		{"saldo insuficiente", dto.PlaceBetRequest{UserRef: "bob", MatchID: m.ID, Side: "a", StakeCents: memory.InitialBonusCents + 1}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.post(t, "/v1/bets", tc.req)
			resp.Body.Close()
			require.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestFinalizeMatchFlow(t *testing.T) {
	f := newFixture(t)
	m := f.seedMatch(t, 1.85, 1.95)

	resp := f.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserRef: "alice", MatchID: m.ID, Side: "a", StakeCents: 5000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.post(t, "/v1/admin/matches/finalize", dto.FinalizeMatchRequest{MatchID: m.ID, WinnerSide: "a"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settled := decode[dto.SettlementResponse](t, resp)
	require.Equal(t, 1, settled.Winners)
	require.Equal(t, int64(9250), settled.TotalPaidCents)

	// re-acerto é rejeitado com conflito
	resp = f.post(t, "/v1/admin/matches/finalize", dto.FinalizeMatchRequest{MatchID: m.ID, WinnerSide: "b"})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.get(t, "/v1/wallet?userRef=alice")
	wallet := decode[dto.WalletResponse](t, resp)
	require.Equal(t, memory.InitialBonusCents-5000+9250, wallet.BalanceCents)

	resp = f.get(t, "/v1/stats?userRef=alice")
	stats := decode[dto.StatsResponse](t, resp)
	require.Equal(t, 1, stats.Wins)
	require.Equal(t, 1.0, stats.WinRate)
}

func TestAdminMatchCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ta, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Alpha", Tag: "ALP"})
	require.NoError(t, err)
	tb, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Bravo", Tag: "BRV"})
	require.NoError(t, err)

	resp := f.post(t, "/v1/admin/matches", dto.CreateMatchRequest{
		SideATeam: ta.ID, SideBTeam: tb.ID,
		Game: "Dota 2", ScheduledAt: time.Now().Add(time.Hour),
		SideAOdds: 1.5, SideBOdds: 2.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[domain.Match](t, resp)

	// odds < 1.0 é rejeitado
	resp = f.post(t, "/v1/admin/matches", dto.CreateMatchRequest{
		SideATeam: ta.ID, SideBTeam: tb.ID,
		Game: "Dota 2", ScheduledAt: time.Now().Add(time.Hour),
		SideAOdds: 0.9, SideBOdds: 2.5,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// listagem pública traz a partida com nomes dos times
	resp = f.get(t, "/v1/matches")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.MatchResponse](t, resp)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, "Alpha", list[0].SideA.Name)

	resp = f.get(t, "/v1/matches/" + created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	one := decode[dto.MatchResponse](t, resp)
	require.Equal(t, 1.5, one.SideA.Odds)

	resp = f.get(t, "/v1/matches/does-not-exist")
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// atualização parcial de odds
	req, err := http.NewRequest(http.MethodPut, f.server.URL+"/v1/admin/matches/"+created.ID,
		bytes.NewReader([]byte(`{"side_a_odds": 1.72}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)
	updated := decode[domain.Match](t, putResp)
	require.Equal(t, 1.72, updated.SideAOdds)
	require.Equal(t, 2.5, updated.SideBOdds)

	// finished não entra pela edição manual, só via finalize ou timeout
	req, err = http.NewRequest(http.MethodPut, f.server.URL+"/v1/admin/matches/"+created.ID,
		bytes.NewReader([]byte(`{"status": "finished"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	putResp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusBadRequest, putResp.StatusCode)
}

func TestWalletAdjust(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/v1/wallet", dto.WalletAdjustRequest{
		UserRef: "alice", Type: "deposit", AmountCents: 2500, Description: "manual topup",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	txn := decode[dto.TransactionResponse](t, resp)
	require.Equal(t, int64(2500), txn.AmountCents)
	require.Equal(t, memory.InitialBonusCents+2500, txn.BalanceAfterCents)

	// tipos internos não entram por aqui
	for _, typ := range []string{"bet", "win", "initial_bonus", "garbage"} {
		resp := f.post(t, "/v1/wallet", dto.WalletAdjustRequest{
			UserRef: "alice", Type: typ, AmountCents: 100,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "type %s", typ)
	}

	// saque acima do saldo
	resp = f.post(t, "/v1/wallet", dto.WalletAdjustRequest{
		UserRef: "alice", Type: "withdrawal", AmountCents: memory.InitialBonusCents * 10,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminSweepEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ta, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Alpha", Tag: "ALP"})
	require.NoError(t, err)
	tb, err := f.store.CreateTeam(ctx, domain.NewTeam{Name: "Bravo", Tag: "BRV"})
	require.NoError(t, err)
	_, err = f.store.CreateMatch(ctx, domain.NewMatch{
		SideATeam: ta.ID, SideBTeam: tb.ID, Game: "CS2",
		ScheduledAt: time.Now().Add(-time.Minute),
		SideAOdds:   2.0, SideBOdds: 2.0,
	})
	require.NoError(t, err)

	resp := f.post(t, "/v1/admin/matches/update-status", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Sweep dto.SweepResponse `json:"sweep"`
	}](t, resp)
	require.Equal(t, 1, out.Sweep.Promoted)
}

func TestAdminCancelBet(t *testing.T) {
	f := newFixture(t)
	m := f.seedMatch(t, 2.0, 2.0)

	resp := f.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserRef: "alice", MatchID: m.ID, Side: "b", StakeCents: 4000,
	})
	placed := decode[dto.PlaceBetResponse](t, resp)

	cancel := func() *http.Response {
		req, err := http.NewRequest(http.MethodPost,
			fmt.Sprintf("%s/v1/admin/bets/%s/cancel", f.server.URL, placed.BetID),
			bytes.NewReader([]byte(`{"reason":"odds error"}`)))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	require.Equal(t, http.StatusNoContent, cancel().StatusCode)

	resp = f.get(t, "/v1/wallet?userRef=alice")
	wallet := decode[dto.WalletResponse](t, resp)
	require.Equal(t, memory.InitialBonusCents, wallet.BalanceCents)

	// cancelar de novo conflita
	require.Equal(t, http.StatusConflict, cancel().StatusCode)
}
