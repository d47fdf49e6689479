package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

const betCols = `id, user_id, match_id, side, stake_cents, odds, potential_payout_cents, status, placed_at, resolved_at`

func scanBet(row interface{ Scan(...any) error }) (*domain.Bet, error) {
	var b domain.Bet
	var resolved sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.MatchID, &b.Side, &b.StakeCents, &b.Odds,
		&b.PotentialPayoutCents, &b.Status, &b.PlacedAt, &resolved)
	if err != nil {
		return nil, err
	}
	if resolved.Valid {
		b.ResolvedAt = &resolved.Time
	}
	return &b, nil
}

// PlaceBet congela a odd corrente, insere a aposta pendente e debita o stake
// numa única transação. Trava a partida em modo compartilhado para não correr
// contra um acerto em andamento; o lock exclusivo do usuário fica por conta
// do recordTxnTx.
func (s *Store) PlaceBet(ctx context.Context, externalID, matchID string, side domain.Side, stakeCents int64) (*domain.Bet, int64, error) {
	if !side.Valid() {
		return nil, 0, fmt.Errorf("%w: side must be %q or %q", domain.ErrValidation, domain.SideA, domain.SideB)
	}
	if stakeCents <= 0 {
		return nil, 0, fmt.Errorf("%w: stake must be positive", domain.ErrValidation)
	}

	var bet *domain.Bet
	var newBalance int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var userID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE external_id=$1`, externalID).Scan(&userID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s: %w", externalID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		m, err := scanMatch(tx.QueryRowContext(ctx,
			`SELECT `+matchColsBare+` FROM matches WHERE id=$1 FOR SHARE`, matchID))
		if err == sql.ErrNoRows {
			return fmt.Errorf("match %s: %w", matchID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if !m.AcceptsBets() {
			return fmt.Errorf("%w: match is %s, no longer accepting bets", domain.ErrInvalidState, m.Status)
		}

		odds := m.OddsFor(side)
		b := &domain.Bet{
			ID:                   uuid.NewString(),
			UserID:               userID,
			MatchID:              matchID,
			Side:                 side,
			StakeCents:           stakeCents,
			Odds:                 odds,
			PotentialPayoutCents: domain.PotentialPayoutCents(stakeCents, odds),
			Status:               domain.BetPending,
			PlacedAt:             time.Now().UTC(),
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bets (`+betCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULL)`,
			b.ID, b.UserID, b.MatchID, b.Side, b.StakeCents, b.Odds, b.PotentialPayoutCents, b.Status, b.PlacedAt); err != nil {
			return fmt.Errorf("insert bet: %w", err)
		}

		txn, err := recordTxnTx(ctx, tx, userID, domain.TxBet, stakeCents,
			fmt.Sprintf("stake on %s vs %s", m.SideATeam, m.SideBTeam), &b.ID)
		if err != nil {
			return err
		}
		bet = b
		newBalance = txn.BalanceAfterCents
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bet, newBalance, nil
}

func (s *Store) GetBet(ctx context.Context, id string) (*domain.Bet, error) {
	b, err := scanBet(s.db.QueryRowContext(ctx,
		`SELECT `+betCols+` FROM bets WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBetsForUser retorna o histórico com contexto de partida/times, mais
// recentes primeiro. LEFT JOIN: aposta órfã de partida ainda aparece.
func (s *Store) GetBetsForUser(ctx context.Context, externalID string) ([]domain.BetView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.match_id, b.side, b.stake_cents, b.odds, b.potential_payout_cents,
		       b.status, b.placed_at, b.resolved_at,
		       COALESCE(m.game,''), COALESCE(m.tournament,''), COALESCE(m.status,''), COALESCE(m.scheduled_at, b.placed_at),
		       COALESCE(ta.name,''), COALESCE(tb.name,'')
		FROM bets b
		JOIN users u ON u.id = b.user_id
		LEFT JOIN matches m ON m.id = b.match_id
		LEFT JOIN teams ta ON ta.id = m.side_a_team
		LEFT JOIN teams tb ON tb.id = m.side_b_team
		WHERE u.external_id=$1
		ORDER BY b.placed_at DESC, b.id DESC`, externalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BetView
	for rows.Next() {
		var v domain.BetView
		var resolved sql.NullTime
		if err := rows.Scan(&v.ID, &v.UserID, &v.MatchID, &v.Side, &v.StakeCents, &v.Odds, &v.PotentialPayoutCents,
			&v.Status, &v.PlacedAt, &resolved,
			&v.Game, &v.Tournament, &v.MatchStatus, &v.ScheduledAt,
			&v.SideATeam, &v.SideBTeam); err != nil {
			return nil, err
		}
		if resolved.Valid {
			v.ResolvedAt = &resolved.Time
		}
		if v.Side == domain.SideA {
			v.ChosenTeam = v.SideATeam
		} else {
			v.ChosenTeam = v.SideBTeam
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// cancelBetTx cancela uma aposta pendente já travada, devolvendo o stake.
func cancelBetTx(ctx context.Context, tx *sql.Tx, b *domain.Bet, reason string) error {
	if b.Status != domain.BetPending {
		return fmt.Errorf("%w: bet %s is %s, only pending bets can be cancelled", domain.ErrInvalidState, b.ID, b.Status)
	}
	if _, err := recordTxnTx(ctx, tx, b.UserID, domain.TxRefund, b.StakeCents, reason, &b.ID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE bets SET status=$1, resolved_at=NOW() WHERE id=$2`, domain.BetCancelled, b.ID)
	return err
}

func (s *Store) CancelBet(ctx context.Context, betID, reason string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := scanBet(tx.QueryRowContext(ctx,
			`SELECT `+betCols+` FROM bets WHERE id=$1 FOR UPDATE`, betID))
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return cancelBetTx(ctx, tx, b, reason)
	})
}

// DeleteBet é remoção administrativa definitiva. Aposta pendente é
// reembolsada antes; o refund referencia a aposta, então a limpeza das
// transações dela apaga débito e compensação juntos e o ledger fecha.
func (s *Store) DeleteBet(ctx context.Context, betID, reason string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := scanBet(tx.QueryRowContext(ctx,
			`SELECT `+betCols+` FROM bets WHERE id=$1 FOR UPDATE`, betID))
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return deleteBetTx(ctx, tx, b, reason)
	})
}

func deleteBetTx(ctx context.Context, tx *sql.Tx, b *domain.Bet, reason string) error {
	if b.Status == domain.BetPending {
		desc := fmt.Sprintf("refund for deleted bet %s: %s", b.ID, reason)
		if _, err := recordTxnTx(ctx, tx, b.UserID, domain.TxRefund, b.StakeCents, desc, &b.ID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wallet_transactions WHERE bet_id=$1`, b.ID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM bets WHERE id=$1`, b.ID)
	return err
}

// refundPendingBetsTx cancela e reembolsa toda aposta pendente da partida.
// Usado pelo timeout automático e pelo cancelamento explícito.
func refundPendingBetsTx(ctx context.Context, tx *sql.Tx, matchID, reason string) (int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+betCols+` FROM bets WHERE match_id=$1 AND status='pending' ORDER BY placed_at FOR UPDATE`, matchID)
	if err != nil {
		return 0, err
	}
	var bets []*domain.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			rows.Close()
			return 0, err
		}
		bets = append(bets, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, b := range bets {
		if err := cancelBetTx(ctx, tx, b, reason); err != nil {
			return 0, err
		}
	}
	return len(bets), nil
}
