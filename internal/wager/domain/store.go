package domain

import (
	"context"
	"time"
)

// NewMatch carrega os campos de criação de uma partida (admin).
type NewMatch struct {
	SideATeam   string
	SideBTeam   string
	Game        string
	Tournament  string
	ScheduledAt time.Time
	SideAOdds   float64
	SideBOdds   float64
}

// MatchUpdate carrega edições parciais de uma partida. Campos nil ficam como estão.
// Editar odds nunca toca apostas já feitas: o snapshot delas é imutável.
type MatchUpdate struct {
	Game        *string
	Tournament  *string
	ScheduledAt *time.Time
	SideAOdds   *float64
	SideBOdds   *float64
	Status      *MatchStatus
}

// NewTeam carrega os campos de criação de um time (admin).
type NewTeam struct {
	Name          string
	Tag           string
	Country       string
	LogoURL       string
	FoundedYear   int
	EarningsCents int64
}

// UserStore provisiona e consulta apostadores.
type UserStore interface {
	// GetOrCreateUser resolve o usuário pelo id do provedor de identidade,
	// criando-o com o bônus inicial (transação initial_bonus) na primeira visita.
	GetOrCreateUser(ctx context.Context, externalID, displayName, email string) (*User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*User, error)
}

// TeamStore faz CRUD de times.
type TeamStore interface {
	CreateTeam(ctx context.Context, t NewTeam) (*Team, error)
	GetTeam(ctx context.Context, id string) (*Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	UpdateTeam(ctx context.Context, t *Team) error
	DeleteTeam(ctx context.Context, id string) error
}

// MatchStore faz CRUD de partidas.
type MatchStore interface {
	CreateMatch(ctx context.Context, m NewMatch) (*Match, error)
	GetMatch(ctx context.Context, id string) (*MatchView, error)
	ListMatches(ctx context.Context) ([]MatchView, error)
	UpdateMatch(ctx context.Context, id string, upd MatchUpdate) (*Match, error)
	// DeleteMatch remove a partida. Falha com ErrInvalidState se ainda houver
	// apostas pendentes nela; a reconciliação cobre o que escapar por fora.
	DeleteMatch(ctx context.Context, id string) error
}

// Ledger é o log append-only de movimentações de saldo.
// Toda mutação de saldo passa por aqui; nenhum outro caminho escreve balance.
type Ledger interface {
	// RecordTransaction aplica o delta e registra a transação numa unidade
	// atômica. Débito com saldo insuficiente falha com ErrInsufficientFunds
	// sem efeito algum.
	RecordTransaction(ctx context.Context, userID string, t TxType, amountCents int64, description string, betID *string) (*Transaction, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error)
}

// BetStore cobre o ciclo de vida individual das apostas.
type BetStore interface {
	// PlaceBet congela a odd corrente do lado escolhido, insere a aposta
	// pendente e debita o stake na mesma unidade atômica (tudo ou nada).
	PlaceBet(ctx context.Context, externalID, matchID string, side Side, stakeCents int64) (*Bet, int64, error)
	GetBet(ctx context.Context, id string) (*Bet, error)
	GetBetsForUser(ctx context.Context, externalID string) ([]BetView, error)
	// CancelBet só vale para apostas pendentes; devolve o stake via refund.
	CancelBet(ctx context.Context, betID, reason string) error
	// DeleteBet é remoção administrativa: refund se pendente, depois apaga a
	// aposta e as transações que a referenciam.
	DeleteBet(ctx context.Context, betID, reason string) error
}

// Settler acerta partidas contra um resultado declarado.
type Settler interface {
	// FinalizeMatch resolve toda aposta pendente da partida: lado vencedor
	// recebe potential_payout (type=win), o resto é marcado como perdida.
	// Re-acerto de partida já finalizada com vencedor falha com ErrAlreadySettled.
	FinalizeMatch(ctx context.Context, matchID string, winner Side) (*SettlementResult, error)
}

// LifecycleStore avança partidas no tempo e limpa estados inconsistentes.
type LifecycleStore interface {
	// AdvanceStatuses promove scheduled->live e encerra live estourada sem
	// vencedor, devolvendo o stake de cada aposta pendente. Idempotente:
	// só age sobre partidas ainda não terminais.
	AdvanceStatuses(ctx context.Context, now time.Time) (*SweepResult, error)
	FindProblematicBets(ctx context.Context) ([]Bet, error)
	// CleanupProblematicBets cancela (partida em estado inválido) ou apaga
	// (partida inexistente) apostas problemáticas, com refund quando pendentes.
	CleanupProblematicBets(ctx context.Context) (*CleanupResult, error)
}

// StatsStore agrega estatísticas por usuário.
type StatsStore interface {
	GetUserStats(ctx context.Context, externalID string) (*UserStats, error)
}

// Store é o contrato completo de persistência do motor de apostas.
// A lógica de negócio é escrita uma vez contra esta interface; cada backend
// (Postgres, memória) fornece uma implementação conforme.
type Store interface {
	UserStore
	TeamStore
	MatchStore
	Ledger
	BetStore
	Settler
	LifecycleStore
	StatsStore

	Ping(ctx context.Context) error
	Close() error
}
