package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// LiveTimeout é a janela máxima de uma partida ao vivo sem resultado
// declarado. Estourou, a partida encerra sem vencedor e os stakes voltam.
const LiveTimeout = 30 * time.Minute

// AdvanceStatuses aplica as transições automáticas de status a todas as
// partidas não terminais. Cada partida avança na própria transação: uma
// falha no meio não trava a varredura seguinte, que é idempotente porque o
// status é rechecado sob lock antes de agir.
func (s *Store) AdvanceStatuses(ctx context.Context, now time.Time) (*domain.SweepResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM matches WHERE status IN ('scheduled','live')`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res := &domain.SweepResult{}
	for _, id := range ids {
		if err := s.advanceOne(ctx, id, now, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Store) advanceOne(ctx context.Context, matchID string, now time.Time, res *domain.SweepResult) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMatch(tx.QueryRowContext(ctx,
			`SELECT `+matchColsBare+` FROM matches WHERE id=$1 FOR UPDATE`, matchID))
		if err == sql.ErrNoRows {
			return nil // sumiu entre a listagem e o lock
		}
		if err != nil {
			return err
		}

		next, changed := domain.NextMatchStatus(m, now, LiveTimeout)
		if !changed {
			return nil
		}

		if next == domain.MatchFinished {
			// Timeout sem vencedor: winner_side fica nulo e todo stake volta
			refunded, err := refundPendingBetsTx(ctx, tx, m.ID, "match finished without result")
			if err != nil {
				return err
			}
			res.AutoFinished++
			res.BetsRefunded += refunded
		} else {
			res.Promoted++
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE matches SET status=$1, updated_at=NOW() WHERE id=$2`, next, m.ID)
		return err
	})
}

// FindProblematicBets lista apostas em estado contraditório: partida
// inexistente, ou pendente com lado desconhecido ou partida num status
// irreconhecível. Resolvida com lado/status esquisito fica de fora; a
// limpeza não age sobre ela e a listagem precisa convergir.
func (s *Store) FindProblematicBets(ctx context.Context) ([]domain.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.match_id, b.side, b.stake_cents, b.odds, b.potential_payout_cents, b.status, b.placed_at, b.resolved_at
		FROM bets b
		LEFT JOIN matches m ON m.id = b.match_id
		WHERE m.id IS NULL
		   OR (b.status = 'pending' AND (
		          b.side NOT IN ('a','b')
		       OR m.status NOT IN ('scheduled','live','finished','cancelled')))
		ORDER BY b.placed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CleanupProblematicBets resolve as apostas problemáticas: partida
// inexistente apaga a aposta (reembolsando se pendente); partida presente
// mas inconsistente cancela com refund. Rede de segurança, não caminho feliz.
func (s *Store) CleanupProblematicBets(ctx context.Context) (*domain.CleanupResult, error) {
	problematic, err := s.FindProblematicBets(ctx)
	if err != nil {
		return nil, err
	}

	res := &domain.CleanupResult{}
	for i := range problematic {
		betID := problematic[i].ID
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			b, err := scanBet(tx.QueryRowContext(ctx,
				`SELECT `+betCols+` FROM bets WHERE id=$1 FOR UPDATE`, betID))
			if err == sql.ErrNoRows {
				return nil // outra varredura chegou antes
			}
			if err != nil {
				return err
			}

			var matchExists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM matches WHERE id=$1)`, b.MatchID).Scan(&matchExists); err != nil {
				return err
			}

			if !matchExists {
				if err := deleteBetTx(ctx, tx, b, "orphaned: match deleted"); err != nil {
					return err
				}
				res.Deleted++
				return nil
			}
			if b.Status == domain.BetPending {
				if err := cancelBetTx(ctx, tx, b, "reconciliation: inconsistent match state"); err != nil {
					return err
				}
				res.Cancelled++
			}
			return nil
		})
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
