package postgres

import (
	"context"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// GetUserStats agrega o desempenho do apostador a partir das apostas e dos
// acumuladores lifetime do usuário.
func (s *Store) GetUserStats(ctx context.Context, externalID string) (*domain.UserStats, error) {
	u, err := s.GetUserByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	st := &domain.UserStats{
		ExternalID:        u.ExternalID,
		DisplayName:       u.DisplayName,
		BalanceCents:      u.BalanceCents,
		TotalWageredCents: u.TotalWageredCents,
		TotalWonCents:     u.TotalWonCents,
		NetProfitCents:    u.TotalWonCents - u.TotalWageredCents,
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='won'),
		       COUNT(*) FILTER (WHERE status='lost'),
		       COUNT(*) FILTER (WHERE status='pending')
		FROM bets WHERE user_id=$1`, u.ID).
		Scan(&st.TotalBets, &st.Wins, &st.Losses, &st.Pending)
	if err != nil {
		return nil, err
	}

	if settled := st.Wins + st.Losses; settled > 0 {
		st.WinRate = float64(st.Wins) / float64(settled)
	}
	return st, nil
}
