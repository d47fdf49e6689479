package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// InitialBonusCents é o saldo de boas-vindas creditado no provisionamento.
const InitialBonusCents int64 = 100000

const userCols = `id, external_id, display_name, email, balance_cents, total_wagered_cents, total_won_cents, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.ExternalID, &u.DisplayName, &u.Email, &u.BalanceCents, &u.TotalWageredCents, &u.TotalWonCents, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreateUser resolve o usuário pelo external id, criando-o com o bônus
// inicial (registrado no ledger) na primeira visita. Atômico.
func (s *Store) GetOrCreateUser(ctx context.Context, externalID, displayName, email string) (*domain.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: externalID required", domain.ErrValidation)
	}
	var user *domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userCols+` FROM users WHERE external_id=$1`, externalID))
		if err == nil {
			user = u
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}

		id := uuid.NewString()
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, external_id, display_name, email, balance_cents, created_at)
			VALUES ($1,$2,$3,$4,0,$5)`,
			id, externalID, displayName, email, now); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		txn, err := recordTxnTx(ctx, tx, id, domain.TxInitialBonus, InitialBonusCents, "welcome bonus", nil)
		if err != nil {
			return err
		}
		user = &domain.User{
			ID:           id,
			ExternalID:   externalID,
			DisplayName:  displayName,
			Email:        email,
			BalanceCents: txn.BalanceAfterCents,
			CreatedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE external_id=$1`, externalID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
