package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/esports-bet-engine/internal/shared/config"
	"github.com/radieske/esports-bet-engine/internal/shared/logger"
	"github.com/radieske/esports-bet-engine/internal/wager/domain"
	"github.com/radieske/esports-bet-engine/internal/wager/store/postgres"
)

// Seeder de desenvolvimento: cria o schema, alguns times, partidas abertas
// e um usuário demo com o bônus inicial. Idempotente: não duplica se já
// houver times no banco.
func main() {
	cfg := config.Load()
	log, _ := logger.New("seeder", cfg.Env)
	defer log.Sync()

	ctx := context.Background()

	store, err := postgres.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("pg schema", zap.Error(err))
	}

	existing, err := store.ListTeams(ctx)
	if err != nil {
		log.Fatal("list teams", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("database already seeded, skipping", zap.Int("teams", len(existing)))
		return
	}

	teams := []domain.NewTeam{
		{Name: "Fire Dragons", Tag: "FDR", Country: "BR", FoundedYear: 2017, EarningsCents: 250000000},
		{Name: "Ice Wolves", Tag: "IWV", Country: "SE", FoundedYear: 2015, EarningsCents: 410000000},
		{Name: "Neon Tigers", Tag: "NTG", Country: "KR", FoundedYear: 2019, EarningsCents: 180000000},
		{Name: "Shadow Ravens", Tag: "SRV", Country: "DE", FoundedYear: 2016, EarningsCents: 320000000},
	}
	ids := make([]string, 0, len(teams))
	for _, nt := range teams {
		t, err := store.CreateTeam(ctx, nt)
		if err != nil {
			log.Fatal("create team", zap.String("tag", nt.Tag), zap.Error(err))
		}
		ids = append(ids, t.ID)
		log.Info("team created", zap.String("tag", t.Tag), zap.String("id", t.ID))
	}

	now := time.Now().UTC()
	matches := []domain.NewMatch{
		{SideATeam: ids[0], SideBTeam: ids[1], Game: "CS2", Tournament: "Spring Invitational", ScheduledAt: now.Add(2 * time.Hour), SideAOdds: 1.85, SideBOdds: 1.95},
		{SideATeam: ids[2], SideBTeam: ids[3], Game: "League of Legends", Tournament: "Spring Invitational", ScheduledAt: now.Add(4 * time.Hour), SideAOdds: 2.40, SideBOdds: 1.55},
		{SideATeam: ids[0], SideBTeam: ids[3], Game: "Dota 2", Tournament: "Masters Cup", ScheduledAt: now.Add(26 * time.Hour), SideAOdds: 1.72, SideBOdds: 2.10},
	}
	for _, nm := range matches {
		m, err := store.CreateMatch(ctx, nm)
		if err != nil {
			log.Fatal("create match", zap.String("game", nm.Game), zap.Error(err))
		}
		log.Info("match created", zap.String("id", m.ID), zap.String("game", m.Game))
	}

	u, err := store.GetOrCreateUser(ctx, "demo-user", "Demo User", "demo@example.com")
	if err != nil {
		log.Fatal("create demo user", zap.Error(err))
	}
	log.Info("demo user ready", zap.String("id", u.ID), zap.Int64("balanceCents", u.BalanceCents))

	log.Info("seed complete")
}
