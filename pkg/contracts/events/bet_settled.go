package events

import "time"

// Evento publicado no tópico "bet_settled" quando uma aposta sai do estado
// pendente: ganha, perdida ou cancelada com refund.
type BetSettled struct {
	BetID       string    `json:"bet_id"`
	UserID      string    `json:"user_id"`
	MatchID     string    `json:"match_id"`
	Outcome     string    `json:"outcome"` // "won" | "lost" | "cancelled"
	PayoutCents int64     `json:"payout_cents"`
	Reason      string    `json:"reason,omitempty"`
	Ts          time.Time `json:"ts"`
}

// Evento publicado junto com o lote de BetSettled de uma partida acertada.
type MatchSettled struct {
	MatchID        string    `json:"match_id"`
	WinnerSide     string    `json:"winner_side,omitempty"` // vazio em timeout sem vencedor
	Winners        int       `json:"winners"`
	Losers         int       `json:"losers"`
	TotalPaidCents int64     `json:"total_paid_cents"`
	Ts             time.Time `json:"ts"`
}
