package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

const matchCols = `m.id, m.side_a_team, m.side_b_team, m.game, m.tournament, m.scheduled_at,
	m.status, m.side_a_odds, m.side_b_odds, m.winner_side, m.created_at, m.updated_at`

const matchColsBare = `id, side_a_team, side_b_team, game, tournament, scheduled_at,
	status, side_a_odds, side_b_odds, winner_side, created_at, updated_at`

func scanMatch(row interface{ Scan(...any) error }) (*domain.Match, error) {
	var m domain.Match
	var winner sql.NullString
	err := row.Scan(&m.ID, &m.SideATeam, &m.SideBTeam, &m.Game, &m.Tournament, &m.ScheduledAt,
		&m.Status, &m.SideAOdds, &m.SideBOdds, &winner, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if winner.Valid {
		side := domain.Side(winner.String)
		m.WinnerSide = &side
	}
	return &m, nil
}

func validateOdds(a, b float64) error {
	if a < 1.0 || b < 1.0 {
		return fmt.Errorf("%w: odds must be >= 1.0", domain.ErrValidation)
	}
	return nil
}

func (s *Store) CreateMatch(ctx context.Context, nm domain.NewMatch) (*domain.Match, error) {
	if nm.SideATeam == "" || nm.SideBTeam == "" || nm.Game == "" {
		return nil, fmt.Errorf("%w: teams and game required", domain.ErrValidation)
	}
	if nm.SideATeam == nm.SideBTeam {
		return nil, fmt.Errorf("%w: a match needs two distinct teams", domain.ErrValidation)
	}
	if err := validateOdds(nm.SideAOdds, nm.SideBOdds); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.Match{
		ID:          uuid.NewString(),
		SideATeam:   nm.SideATeam,
		SideBTeam:   nm.SideBTeam,
		Game:        nm.Game,
		Tournament:  nm.Tournament,
		ScheduledAt: nm.ScheduledAt,
		Status:      domain.MatchScheduled,
		SideAOdds:   nm.SideAOdds,
		SideBOdds:   nm.SideBOdds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, side_a_team, side_b_team, game, tournament, scheduled_at, status, side_a_odds, side_b_odds, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		m.ID, m.SideATeam, m.SideBTeam, m.Game, m.Tournament, m.ScheduledAt, m.Status, m.SideAOdds, m.SideBOdds, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	return m, nil
}

const matchViewQuery = `
	SELECT ` + matchCols + `, ta.name, ta.tag, tb.name, tb.tag
	FROM matches m
	JOIN teams ta ON ta.id = m.side_a_team
	JOIN teams tb ON tb.id = m.side_b_team`

func scanMatchView(row interface{ Scan(...any) error }) (*domain.MatchView, error) {
	var v domain.MatchView
	var winner sql.NullString
	err := row.Scan(&v.ID, &v.SideATeam, &v.SideBTeam, &v.Game, &v.Tournament, &v.ScheduledAt,
		&v.Status, &v.SideAOdds, &v.SideBOdds, &winner, &v.CreatedAt, &v.UpdatedAt,
		&v.SideAName, &v.SideATag, &v.SideBName, &v.SideBTag)
	if err != nil {
		return nil, err
	}
	if winner.Valid {
		side := domain.Side(winner.String)
		v.WinnerSide = &side
	}
	return &v, nil
}

func (s *Store) GetMatch(ctx context.Context, id string) (*domain.MatchView, error) {
	v, err := scanMatchView(s.db.QueryRowContext(ctx, matchViewQuery+` WHERE m.id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) ListMatches(ctx context.Context) ([]domain.MatchView, error) {
	rows, err := s.db.QueryContext(ctx, matchViewQuery+` ORDER BY m.scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchView
	for rows.Next() {
		v, err := scanMatchView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// UpdateMatch aplica edições parciais. Odds novas valem só para apostas
// futuras: o snapshot das existentes nunca é tocado.
func (s *Store) UpdateMatch(ctx context.Context, id string, upd domain.MatchUpdate) (*domain.Match, error) {
	var updated *domain.Match
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMatch(tx.QueryRowContext(ctx,
			`SELECT `+matchColsBare+` FROM matches WHERE id=$1 FOR UPDATE`, id))
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if upd.Game != nil {
			m.Game = *upd.Game
		}
		if upd.Tournament != nil {
			m.Tournament = *upd.Tournament
		}
		if upd.ScheduledAt != nil {
			m.ScheduledAt = *upd.ScheduledAt
		}
		if upd.SideAOdds != nil {
			m.SideAOdds = *upd.SideAOdds
		}
		if upd.SideBOdds != nil {
			m.SideBOdds = *upd.SideBOdds
		}
		if err := validateOdds(m.SideAOdds, m.SideBOdds); err != nil {
			return err
		}
		if upd.Status != nil {
			// Edição manual só promove para live ou cancela; finished exige
			// vencedor (finalize) ou o timeout da varredura, senão pendentes
			// ficariam presas numa partida terminal sem acerto nem refund
			if *upd.Status != domain.MatchLive && *upd.Status != domain.MatchCancelled {
				return fmt.Errorf("%w: status can only be set to %q or %q", domain.ErrValidation, domain.MatchLive, domain.MatchCancelled)
			}
			if m.Status.Terminal() {
				return fmt.Errorf("%w: match %s is terminal", domain.ErrInvalidState, m.ID)
			}
			if *upd.Status == domain.MatchCancelled {
				// Cancelamento explícito devolve toda aposta pendente
				if _, err := refundPendingBetsTx(ctx, tx, m.ID, "match cancelled"); err != nil {
					return err
				}
			}
			m.Status = *upd.Status
		}
		m.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx, `
			UPDATE matches SET game=$1, tournament=$2, scheduled_at=$3, side_a_odds=$4, side_b_odds=$5, status=$6, updated_at=$7
			WHERE id=$8`,
			m.Game, m.Tournament, m.ScheduledAt, m.SideAOdds, m.SideBOdds, m.Status, m.UpdatedAt, m.ID)
		if err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMatch remove uma partida. Recusa enquanto houver aposta pendente,
// justamente o buraco que a reconciliação existe para cobrir.
func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var pending int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bets WHERE match_id=$1 AND status='pending'`, id).Scan(&pending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: match has %d pending bets", domain.ErrInvalidState, pending)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
