package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

func (s *Store) CreateTeam(ctx context.Context, nt domain.NewTeam) (*domain.Team, error) {
	if nt.Name == "" || nt.Tag == "" {
		return nil, fmt.Errorf("%w: name and tag required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.Tag == nt.Tag {
			return nil, fmt.Errorf("%w: tag %s taken", domain.ErrValidation, nt.Tag)
		}
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
	s.teams[t.ID] = t
	out := *t
	return &out, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateTeam(ctx context.Context, t *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.teams[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *t
	cp.CreatedAt = cur.CreatedAt
	s.teams[t.ID] = &cp
	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range s.matches {
		if m.SideATeam == id || m.SideBTeam == id {
			return fmt.Errorf("%w: team referenced by matches", domain.ErrInvalidState)
		}
	}
	delete(s.teams, id)
	return nil
}

func (s *Store) CreateMatch(ctx context.Context, nm domain.NewMatch) (*domain.Match, error) {
	if nm.SideATeam == "" || nm.SideBTeam == "" || nm.Game == "" {
		return nil, fmt.Errorf("%w: teams and game required", domain.ErrValidation)
	}
	if nm.SideATeam == nm.SideBTeam {
		return nil, fmt.Errorf("%w: a match needs two distinct teams", domain.ErrValidation)
	}
	if nm.SideAOdds < 1.0 || nm.SideBOdds < 1.0 {
		return nil, fmt.Errorf("%w: odds must be >= 1.0", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[nm.SideATeam]; !ok {
		return nil, fmt.Errorf("team %s: %w", nm.SideATeam, domain.ErrNotFound)
	}
	if _, ok := s.teams[nm.SideBTeam]; !ok {
		return nil, fmt.Errorf("team %s: %w", nm.SideBTeam, domain.ErrNotFound)
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
	s.matches[m.ID] = m
	out := *m
	return &out, nil
}

// viewLocked monta a MatchView com os nomes dos times. Pré-condição: s.mu.
func (s *Store) viewLocked(m *domain.Match) domain.MatchView {
	v := domain.MatchView{Match: *m}
	if ta, ok := s.teams[m.SideATeam]; ok {
		v.SideAName, v.SideATag = ta.Name, ta.Tag
	}
	if tb, ok := s.teams[m.SideBTeam]; ok {
		v.SideBName, v.SideBTag = tb.Name, tb.Tag
	}
	return v
}

func (s *Store) GetMatch(ctx context.Context, id string) (*domain.MatchView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := s.viewLocked(m)
	return &v, nil
}

func (s *Store) ListMatches(ctx context.Context) ([]domain.MatchView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MatchView, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, s.viewLocked(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (s *Store) UpdateMatch(ctx context.Context, id string, upd domain.MatchUpdate) (*domain.Match, error) {
	lock := s.lockMatch(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	m, ok := s.matches[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
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
	if m.SideAOdds < 1.0 || m.SideBOdds < 1.0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: odds must be >= 1.0", domain.ErrValidation)
	}

	var cancelled bool
	if upd.Status != nil {
		// finished só via finalize ou timeout da varredura; aqui vale
		// apenas promover para live ou cancelar
		if *upd.Status != domain.MatchLive && *upd.Status != domain.MatchCancelled {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: status can only be set to %q or %q", domain.ErrValidation, domain.MatchLive, domain.MatchCancelled)
		}
		if m.Status.Terminal() {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: match %s is terminal", domain.ErrInvalidState, m.ID)
		}
		cancelled = *upd.Status == domain.MatchCancelled
		m.Status = *upd.Status
	}
	m.UpdatedAt = time.Now().UTC()
	out := *m
	s.mu.Unlock()

	if cancelled {
		if _, err := s.refundPendingBets(id, "match cancelled"); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	lock := s.lockMatch(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range s.bets {
		if b.MatchID == id && b.Status == domain.BetPending {
			return fmt.Errorf("%w: match has pending bets", domain.ErrInvalidState)
		}
	}
	delete(s.matches, id)
	return nil
}
