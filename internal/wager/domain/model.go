package domain

import (
	"math"
	"time"
)

// Side identifica um dos dois lados de uma partida.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Valid informa se o lado é um dos dois reconhecidos.
func (s Side) Valid() bool { return s == SideA || s == SideB }

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

// Terminal informa se o status não admite mais transições.
func (s MatchStatus) Terminal() bool { return s == MatchFinished || s == MatchCancelled }

type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

// TxType classifica o efeito de uma transação no saldo.
type TxType string

const (
	TxBet          TxType = "bet"
	TxWin          TxType = "win"
	TxDeposit      TxType = "deposit"
	TxWithdrawal   TxType = "withdrawal"
	TxRefund       TxType = "refund"
	TxInitialBonus TxType = "initial_bonus"
)

// Valid informa se o tipo de transação é reconhecido.
func (t TxType) Valid() bool {
	switch t {
	case TxBet, TxWin, TxDeposit, TxWithdrawal, TxRefund, TxInitialBonus:
		return true
	}
	return false
}

// Debit informa se o tipo debita saldo (bet e withdrawal); os demais creditam.
func (t TxType) Debit() bool { return t == TxBet || t == TxWithdrawal }

// EffectCents converte um valor absoluto no delta assinado aplicado ao saldo.
func (t TxType) EffectCents(amountCents int64) int64 {
	if t.Debit() {
		return -amountCents
	}
	return amountCents
}

// User é o apostador, provisionado na primeira visita autenticada.
// Saldo é denormalizado: a fonte de verdade é o ledger de transações.
type User struct {
	ID                string    `json:"id"`
	ExternalID        string    `json:"external_id"`
	DisplayName       string    `json:"display_name"`
	Email             string    `json:"email,omitempty"`
	BalanceCents      int64     `json:"balance_cents"`
	TotalWageredCents int64     `json:"total_wagered_cents"`
	TotalWonCents     int64     `json:"total_won_cents"`
	CreatedAt         time.Time `json:"created_at"`
}

type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Tag           string    `json:"tag"`
	Country       string    `json:"country,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	FoundedYear   int       `json:"founded_year,omitempty"`
	EarningsCents int64     `json:"earnings_cents,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Match é uma partida entre dois times. WinnerSide só é preenchido quando a
// partida termina com resultado real; timeout automático encerra sem vencedor.
type Match struct {
	ID          string      `json:"id"`
	SideATeam   string      `json:"side_a_team"`
	SideBTeam   string      `json:"side_b_team"`
	Game        string      `json:"game"`
	Tournament  string      `json:"tournament"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	Status      MatchStatus `json:"status"`
	SideAOdds   float64     `json:"side_a_odds"`
	SideBOdds   float64     `json:"side_b_odds"`
	WinnerSide  *Side       `json:"winner_side,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OddsFor retorna a odd corrente do lado informado.
func (m *Match) OddsFor(side Side) float64 {
	if side == SideA {
		return m.SideAOdds
	}
	return m.SideBOdds
}

// AcceptsBets informa se a partida ainda recebe apostas novas.
func (m *Match) AcceptsBets() bool {
	return m.Status == MatchScheduled || m.Status == MatchLive
}

// MatchView é a partida enriquecida com dados de exibição dos dois times.
type MatchView struct {
	Match
	SideAName string `json:"side_a_name"`
	SideATag  string `json:"side_a_tag"`
	SideBName string `json:"side_b_name"`
	SideBTag  string `json:"side_b_tag"`
}

// Bet é uma aposta individual. Odds e payout são congelados na criação:
// mudança posterior de odds da partida não altera o contrato visto pelo usuário.
type Bet struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	MatchID              string     `json:"match_id"`
	Side                 Side       `json:"side"`
	StakeCents           int64      `json:"stake_cents"`
	Odds                 float64    `json:"odds"`
	PotentialPayoutCents int64      `json:"potential_payout_cents"`
	Status               BetStatus  `json:"status"`
	PlacedAt             time.Time  `json:"placed_at"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
}

// BetView é a aposta enriquecida com contexto de partida/times para exibição.
type BetView struct {
	Bet
	Game        string      `json:"game"`
	Tournament  string      `json:"tournament"`
	SideATeam   string      `json:"side_a_team"`
	SideBTeam   string      `json:"side_b_team"`
	ChosenTeam  string      `json:"chosen_team"`
	MatchStatus MatchStatus `json:"match_status"`
	ScheduledAt time.Time   `json:"scheduled_at"`
}

// Transaction é um registro imutável do ledger. AmountCents carrega o efeito
// assinado sobre o saldo; BalanceAfterCents é o snapshot pós-aplicação.
type Transaction struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Type              TxType    `json:"type"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	Description       string    `json:"description,omitempty"`
	BetID             *string   `json:"bet_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// UserStats agrega o desempenho do apostador para o endpoint de stats.
type UserStats struct {
	ExternalID        string
	DisplayName       string
	BalanceCents      int64
	TotalBets         int
	Wins              int
	Losses            int
	Pending           int
	WinRate           float64
	TotalWageredCents int64
	TotalWonCents     int64
	NetProfitCents    int64
}

// SettledBet é o desfecho de uma aposta individual dentro de um acerto.
type SettledBet struct {
	BetID       string
	UserID      string
	Outcome     BetStatus
	PayoutCents int64
}

// SettlementResult resume um acerto de partida.
type SettlementResult struct {
	MatchID        string
	WinnerSide     Side
	Winners        int
	Losers         int
	TotalPaidCents int64
	Bets           []SettledBet
}

// SweepResult resume uma passada do avanço de status.
type SweepResult struct {
	Promoted     int
	AutoFinished int
	BetsRefunded int
}

// CleanupResult resume uma passada de reconciliação.
type CleanupResult struct {
	Cancelled int
	Deleted   int
}

// PotentialPayoutCents calcula stake * odds em centavos, arredondado.
// Congelado na criação da aposta.
func PotentialPayoutCents(stakeCents int64, odds float64) int64 {
	return int64(math.Round(float64(stakeCents) * odds))
}

// ResolveBet decide o destino de uma aposta pendente dado o lado vencedor.
func ResolveBet(betSide, winner Side) BetStatus {
	if betSide == winner {
		return BetWon
	}
	return BetLost
}

// NextMatchStatus decide a transição automática de uma partida não terminal.
// scheduled -> live quando o relógio alcança o horário marcado;
// live -> finished (sem vencedor) quando a partida estoura a janela de timeout.
// Retorna false quando nenhuma transição se aplica.
func NextMatchStatus(m *Match, now time.Time, liveTimeout time.Duration) (MatchStatus, bool) {
	switch m.Status {
	case MatchScheduled:
		if !now.Before(m.ScheduledAt) {
			// já passou do timeout direto? encerra sem vencedor
			if now.Sub(m.ScheduledAt) > liveTimeout {
				return MatchFinished, true
			}
			return MatchLive, true
		}
	case MatchLive:
		if now.Sub(m.ScheduledAt) > liveTimeout {
			return MatchFinished, true
		}
	}
	return m.Status, false
}
