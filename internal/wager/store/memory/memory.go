// Package memory implementa domain.Store inteiro em memória.
//
// Serve o modo demo (sem Postgres) e a suíte de testes do motor. A disciplina
// de concorrência espelha o backend Postgres: mutex por usuário segurado ao
// longo de check-and-update de saldo, mutex por partida durante o acerto.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// InitialBonusCents é o saldo de boas-vindas creditado no provisionamento.
const InitialBonusCents int64 = 100000

// LiveTimeout é a janela máxima de partida ao vivo sem resultado declarado.
const LiveTimeout = 30 * time.Minute

type Store struct {
	mu         sync.RWMutex
	users      map[string]*domain.User // por id interno
	usersByExt map[string]string       // external_id -> id
	teams      map[string]*domain.Team
	matches    map[string]*domain.Match
	bets       map[string]*domain.Bet
	txns       map[string][]domain.Transaction // por usuário, ordem de chegada

	userMu  map[string]*sync.Mutex
	matchMu map[string]*sync.Mutex
}

func New() *Store {
	return &Store{
		users:      make(map[string]*domain.User),
		usersByExt: make(map[string]string),
		teams:      make(map[string]*domain.Team),
		matches:    make(map[string]*domain.Match),
		bets:       make(map[string]*domain.Bet),
		txns:       make(map[string][]domain.Transaction),
		userMu:     make(map[string]*sync.Mutex),
		matchMu:    make(map[string]*sync.Mutex),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// lockUser devolve o mutex dedicado do usuário, criando sob demanda.
func (s *Store) lockUser(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.userMu[id]
	if !ok {
		m = &sync.Mutex{}
		s.userMu[id] = m
	}
	return m
}

func (s *Store) lockMatch(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matchMu[id]
	if !ok {
		m = &sync.Mutex{}
		s.matchMu[id] = m
	}
	return m
}

// applyTxnLocked movimenta o saldo e anexa a transação ao ledger.
// Pré-condição: mutex do usuário segurado pelo chamador.
func (s *Store) applyTxnLocked(u *domain.User, t domain.TxType, amountCents int64, description string, betID *string) (*domain.Transaction, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, t)
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if t.Debit() && u.BalanceCents < amountCents {
		return nil, domain.ErrInsufficientFunds
	}

	u.BalanceCents += t.EffectCents(amountCents)
	switch t {
	case domain.TxBet:
		u.TotalWageredCents += amountCents
	case domain.TxWin:
		u.TotalWonCents += amountCents
	}

	txn := domain.Transaction{
		ID:                uuid.NewString(),
		UserID:            u.ID,
		Type:              t,
		AmountCents:       t.EffectCents(amountCents),
		BalanceAfterCents: u.BalanceCents,
		Description:       description,
		BetID:             betID,
		CreatedAt:         time.Now().UTC(),
	}
	s.txns[u.ID] = append(s.txns[u.ID], txn)
	out := txn
	return &out, nil
}

// RecordTransaction aplica o delta no saldo e registra no ledger, serializado
// pelo mutex do usuário.
func (s *Store) RecordTransaction(ctx context.Context, userID string, t domain.TxType, amountCents int64, description string, betID *string) (*domain.Transaction, error) {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.applyTxnLocked(u, t, amountCents, description, betID)
}

func (s *Store) GetBalance(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return u.BalanceCents, nil
}

// GetTransactions retorna o histórico do usuário, mais recentes primeiro.
func (s *Store) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrNotFound
	}
	all := s.txns[userID]
	out := make([]domain.Transaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *Store) GetOrCreateUser(ctx context.Context, externalID, displayName, email string) (*domain.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: externalID required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.usersByExt[externalID]; ok {
		out := *s.users[id]
		return &out, nil
	}

	u := &domain.User{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.usersByExt[externalID] = u.ID
	if _, err := s.applyTxnLocked(u, domain.TxInitialBonus, InitialBonusCents, "welcome bonus", nil); err != nil {
		return nil, err
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByExt[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// GetUserStats agrega o desempenho do apostador.
func (s *Store) GetUserStats(ctx context.Context, externalID string) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByExt[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := s.users[id]
	st := &domain.UserStats{
		ExternalID:        u.ExternalID,
		DisplayName:       u.DisplayName,
		BalanceCents:      u.BalanceCents,
		TotalWageredCents: u.TotalWageredCents,
		TotalWonCents:     u.TotalWonCents,
		NetProfitCents:    u.TotalWonCents - u.TotalWageredCents,
	}
	for _, b := range s.bets {
		if b.UserID != u.ID {
			continue
		}
		st.TotalBets++
		switch b.Status {
		case domain.BetWon:
			st.Wins++
		case domain.BetLost:
			st.Losses++
		case domain.BetPending:
			st.Pending++
		}
	}
	if settled := st.Wins + st.Losses; settled > 0 {
		st.WinRate = float64(st.Wins) / float64(settled)
	}
	return st, nil
}

// sortedBetIDs devolve os ids das apostas em ordem de criação, para varreduras
// determinísticas. Pré-condição: s.mu segurado.
func (s *Store) sortedBetIDsLocked(filter func(*domain.Bet) bool) []string {
	ids := make([]string, 0)
	for id, b := range s.bets {
		if filter == nil || filter(b) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		bi, bj := s.bets[ids[i]], s.bets[ids[j]]
		if bi.PlacedAt.Equal(bj.PlacedAt) {
			return bi.ID < bj.ID
		}
		return bi.PlacedAt.Before(bj.PlacedAt)
	})
	return ids
}
