package events

// Evento publicado no tópico "bet_placed" após o commit da aposta.
type BetPlaced struct {
	BetID       string  `json:"bet_id"`
	UserRef     string  `json:"user_ref"`
	MatchID     string  `json:"match_id"`
	Side        string  `json:"side"` // "a" | "b"
	StakeCents  int64   `json:"stake_cents"`
	Odds        float64 `json:"odds"`
	PayoutCents int64   `json:"potential_payout_cents"`
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
