package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// recordTxnTx aplica uma movimentação de saldo dentro de uma transação já
// aberta. Trava a linha do usuário (FOR UPDATE) antes de checar saldo, de
// forma que débito concorrente nunca produz overdraft.
func recordTxnTx(ctx context.Context, tx *sql.Tx, userID string, t domain.TxType, amountCents int64, description string, betID *string) (*domain.Transaction, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, t)
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	var balance int64
	err := tx.QueryRowContext(ctx,
		`SELECT balance_cents FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock user row: %w", err)
	}

	effect := t.EffectCents(amountCents)
	if t.Debit() && balance < amountCents {
		return nil, domain.ErrInsufficientFunds
	}
	newBalance := balance + effect

	// Acumuladores de lifetime andam junto com o saldo
	switch t {
	case domain.TxBet:
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance_cents=$1, total_wagered_cents=total_wagered_cents+$2 WHERE id=$3`,
			newBalance, amountCents, userID)
	case domain.TxWin:
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance_cents=$1, total_won_cents=total_won_cents+$2 WHERE id=$3`,
			newBalance, amountCents, userID)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance_cents=$1 WHERE id=$2`, newBalance, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	txn := &domain.Transaction{
		ID:                uuid.NewString(),
		UserID:            userID,
		Type:              t,
		AmountCents:       effect,
		BalanceAfterCents: newBalance,
		Description:       description,
		BetID:             betID,
		CreatedAt:         time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, user_id, type, amount_cents, balance_after_cents, description, bet_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		txn.ID, txn.UserID, txn.Type, txn.AmountCents, txn.BalanceAfterCents, txn.Description, txn.BetID, txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return txn, nil
}

// RecordTransaction aplica o delta no saldo e registra no ledger, tudo numa
// transação só. Débito sem saldo suficiente falha com ErrInsufficientFunds
// sem efeito algum.
func (s *Store) RecordTransaction(ctx context.Context, userID string, t domain.TxType, amountCents int64, description string, betID *string) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		txn, err = recordTxnTx(ctx, tx, userID, t, amountCents, description, betID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *Store) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance_cents FROM users WHERE id=$1`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// GetTransactions retorna o histórico do usuário, mais recentes primeiro.
func (s *Store) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount_cents, balance_after_cents, description, bet_id, created_at
		FROM wallet_transactions
		WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.AmountCents, &t.BalanceAfterCents, &t.Description, &t.BetID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
