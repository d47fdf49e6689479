package dto

import "time"

type PlaceBetRequest struct {
	UserRef    string `json:"userRef"`
	MatchID    string `json:"matchId"`
	Side       string `json:"side"` // "a" | "b"
	StakeCents int64  `json:"stake_cents"`
}

type WalletAdjustRequest struct {
	UserRef     string  `json:"userRef"`
	Type        string  `json:"type"` // deposit | withdrawal | refund
	AmountCents int64   `json:"amount_cents"`
	Description string  `json:"description,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"` // betId, quando houver
}

type CreateTeamRequest struct {
	Name          string `json:"name"`
	Tag           string `json:"tag"`
	Country       string `json:"country,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
	FoundedYear   int    `json:"founded_year,omitempty"`
	EarningsCents int64  `json:"earnings_cents,omitempty"`
}

type CreateMatchRequest struct {
	SideATeam   string    `json:"side_a_team"`
	SideBTeam   string    `json:"side_b_team"`
	Game        string    `json:"game"`
	Tournament  string    `json:"tournament,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	SideAOdds   float64   `json:"side_a_odds"`
	SideBOdds   float64   `json:"side_b_odds"`
}

// Campos nil não são alterados.
type UpdateMatchRequest struct {
	Game        *string    `json:"game,omitempty"`
	Tournament  *string    `json:"tournament,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SideAOdds   *float64   `json:"side_a_odds,omitempty"`
	SideBOdds   *float64   `json:"side_b_odds,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type FinalizeMatchRequest struct {
	MatchID    string `json:"matchId"`
	WinnerSide string `json:"winnerSide"` // "a" | "b"
}

type CancelBetRequest struct {
	Reason string `json:"reason,omitempty"`
}
