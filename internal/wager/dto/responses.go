package dto

import (
	"time"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PlaceBetResponse struct {
	BetID                string  `json:"betId"`
	Status               string  `json:"status"`
	OddsLocked           float64 `json:"odds_locked"`
	PotentialPayoutCents int64   `json:"potential_payout_cents"`
	NewBalanceCents      int64   `json:"new_balance_cents"`
}

type TeamSide struct {
	TeamID string  `json:"team_id"`
	Name   string  `json:"name"`
	Tag    string  `json:"tag"`
	Odds   float64 `json:"odds"`
}

type MatchResponse struct {
	ID          string    `json:"id"`
	Game        string    `json:"game"`
	Tournament  string    `json:"tournament,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	SideA       TeamSide  `json:"side_a"`
	SideB       TeamSide  `json:"side_b"`
	WinnerSide  string    `json:"winner_side,omitempty"`
}

// FromMatchView projeta a view persistida no formato da API.
func FromMatchView(v domain.MatchView) MatchResponse {
	out := MatchResponse{
		ID:          v.ID,
		Game:        v.Game,
		Tournament:  v.Tournament,
		ScheduledAt: v.ScheduledAt,
		Status:      string(v.Status),
		SideA:       TeamSide{TeamID: v.SideATeam, Name: v.SideAName, Tag: v.SideATag, Odds: v.SideAOdds},
		SideB:       TeamSide{TeamID: v.SideBTeam, Name: v.SideBName, Tag: v.SideBTag, Odds: v.SideBOdds},
	}
	if v.WinnerSide != nil {
		out.WinnerSide = string(*v.WinnerSide)
	}
	return out
}

type BetResponse struct {
	ID                   string     `json:"id"`
	MatchID              string     `json:"match_id"`
	Game                 string     `json:"game,omitempty"`
	Tournament           string     `json:"tournament,omitempty"`
	SideATeam            string     `json:"side_a_team,omitempty"`
	SideBTeam            string     `json:"side_b_team,omitempty"`
	ChosenSide           string     `json:"chosen_side"`
	ChosenTeam           string     `json:"chosen_team,omitempty"`
	StakeCents           int64      `json:"stake_cents"`
	Odds                 float64    `json:"odds"`
	PotentialPayoutCents int64      `json:"potential_payout_cents"`
	Status               string     `json:"status"`
	PlacedAt             time.Time  `json:"placed_at"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
}

func FromBetView(v domain.BetView) BetResponse {
	return BetResponse{
		ID:                   v.ID,
		MatchID:              v.MatchID,
		Game:                 v.Game,
		Tournament:           v.Tournament,
		SideATeam:            v.SideATeam,
		SideBTeam:            v.SideBTeam,
		ChosenSide:           string(v.Side),
		ChosenTeam:           v.ChosenTeam,
		StakeCents:           v.StakeCents,
		Odds:                 v.Odds,
		PotentialPayoutCents: v.PotentialPayoutCents,
		Status:               string(v.Status),
		PlacedAt:             v.PlacedAt,
		ResolvedAt:           v.ResolvedAt,
	}
}

type TransactionResponse struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	Description       string    `json:"description,omitempty"`
	BetID             *string   `json:"bet_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func FromTransaction(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		Type:              string(t.Type),
		AmountCents:       t.AmountCents,
		BalanceAfterCents: t.BalanceAfterCents,
		Description:       t.Description,
		BetID:             t.BetID,
		CreatedAt:         t.CreatedAt,
	}
}

type WalletResponse struct {
	UserRef      string                `json:"userRef"`
	BalanceCents int64                 `json:"balance_cents"`
	Transactions []TransactionResponse `json:"transactions"`
}

type StatsResponse struct {
	UserRef           string  `json:"userRef"`
	DisplayName       string  `json:"display_name"`
	BalanceCents      int64   `json:"balance_cents"`
	TotalBets         int     `json:"total_bets"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Pending           int     `json:"pending"`
	WinRate           float64 `json:"win_rate"`
	TotalWageredCents int64   `json:"total_wagered_cents"`
	TotalWonCents     int64   `json:"total_won_cents"`
	NetProfitCents    int64   `json:"net_profit_cents"`
}

type SettlementResponse struct {
	MatchID        string `json:"matchId"`
	WinnerSide     string `json:"winnerSide"`
	Winners        int    `json:"winners"`
	Losers         int    `json:"losers"`
	TotalPaidCents int64  `json:"total_paid_cents"`
}

type SweepResponse struct {
	Promoted     int `json:"promoted"`
	AutoFinished int `json:"auto_finished"`
	BetsRefunded int `json:"bets_refunded"`
}

type CleanupResponse struct {
	Cancelled int `json:"cancelled"`
	Deleted   int `json:"deleted"`
}
