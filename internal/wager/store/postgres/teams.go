package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

const teamCols = `id, name, tag, country, logo_url, founded_year, earnings_cents, created_at`

func scanTeam(row interface{ Scan(...any) error }) (*domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.Name, &t.Tag, &t.Country, &t.LogoURL, &t.FoundedYear, &t.EarningsCents, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTeam(ctx context.Context, nt domain.NewTeam) (*domain.Team, error) {
	if nt.Name == "" || nt.Tag == "" {
		return nil, fmt.Errorf("%w: name and tag required", domain.ErrValidation)
	}
	t := &domain.Team{
		ID:            uuid.NewString(),
		Name:          nt.Name,
		Tag:           nt.Tag,
		Country:       nt.Country,
		LogoURL:       nt.LogoURL,
		FoundedYear:   nt.FoundedYear,
		EarningsCents: nt.EarningsCents,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (`+teamCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.Name, t.Tag, t.Country, t.LogoURL, t.FoundedYear, t.EarningsCents, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return t, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx,
		`SELECT `+teamCols+` FROM teams WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teamCols+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTeam(ctx context.Context, t *domain.Team) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE teams SET name=$1, tag=$2, country=$3, logo_url=$4, founded_year=$5, earnings_cents=$6
		WHERE id=$7`,
		t.Name, t.Tag, t.Country, t.LogoURL, t.FoundedYear, t.EarningsCents, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	// Time referenciado por partida não pode sair
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE side_a_team=$1 OR side_b_team=$1)`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: team referenced by matches", domain.ErrInvalidState)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
