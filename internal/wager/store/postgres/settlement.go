package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// FinalizeMatch acerta a partida contra o lado vencedor declarado pelo admin.
// A linha da partida é travada com FOR UPDATE, o que serializa acertos
// concorrentes da mesma partida e bloqueia apostas novas no meio do caminho.
// Tudo (pagamentos, status das apostas, status da partida) commita junto:
// não existe estado intermediário visível nem re-pagamento em retry.
func (s *Store) FinalizeMatch(ctx context.Context, matchID string, winner domain.Side) (*domain.SettlementResult, error) {
	if !winner.Valid() {
		return nil, fmt.Errorf("%w: winner must be %q or %q", domain.ErrValidation, domain.SideA, domain.SideB)
	}

	res := &domain.SettlementResult{MatchID: matchID, WinnerSide: winner}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMatch(tx.QueryRowContext(ctx,
			`SELECT `+matchColsBare+` FROM matches WHERE id=$1 FOR UPDATE`, matchID))
		if err == sql.ErrNoRows {
			return fmt.Errorf("match %s: %w", matchID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if m.WinnerSide != nil {
			return fmt.Errorf("match %s already settled as winner=%s: %w", matchID, *m.WinnerSide, domain.ErrAlreadySettled)
		}
		if m.Status.Terminal() {
			// Terminal sem vencedor: apostas já foram reembolsadas
			return fmt.Errorf("%w: match %s is %s", domain.ErrInvalidState, matchID, m.Status)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT `+betCols+` FROM bets WHERE match_id=$1 AND status='pending' ORDER BY placed_at FOR UPDATE`, matchID)
		if err != nil {
			return err
		}
		var pending []*domain.Bet
		for rows.Next() {
			b, err := scanBet(rows)
			if err != nil {
				rows.Close()
				return err
			}
			pending = append(pending, b)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, b := range pending {
			outcome := domain.ResolveBet(b.Side, winner)
			settled := domain.SettledBet{BetID: b.ID, UserID: b.UserID, Outcome: outcome}
			if outcome == domain.BetWon {
				desc := fmt.Sprintf("winnings on match %s at odds %.2f", matchID, b.Odds)
				if _, err := recordTxnTx(ctx, tx, b.UserID, domain.TxWin, b.PotentialPayoutCents, desc, &b.ID); err != nil {
					return err
				}
				settled.PayoutCents = b.PotentialPayoutCents
				res.Winners++
				res.TotalPaidCents += b.PotentialPayoutCents
			} else {
				res.Losers++
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE bets SET status=$1, resolved_at=NOW() WHERE id=$2`, outcome, b.ID); err != nil {
				return err
			}
			res.Bets = append(res.Bets, settled)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE matches SET status=$1, winner_side=$2, updated_at=NOW() WHERE id=$3`,
			domain.MatchFinished, winner, matchID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
