package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/uniplay/tournament-engine/config"
	"github.com/uniplay/tournament-engine/events"
	"github.com/uniplay/tournament-engine/models"
	"github.com/uniplay/tournament-engine/services"
	"github.com/uniplay/tournament-engine/store"
)

// The simulator drives a full tournament through the engine: generate the
// bracket, play every round with random results, then compute standings.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("format", string(cfg.Format)),
		slog.Int("teams", len(cfg.TeamNames)),
		slog.Int64("seed", cfg.Seed))

	tournamentStore := store.NewTournamentStore()
	matchStore := store.NewMatchStore()
	hub := events.NewHub(logger)

	bracketService := services.NewBracketService(tournamentStore, matchStore, hub, logger)
	matchService := services.NewMatchService(tournamentStore, matchStore, hub, logger)
	standingsService := services.NewStandingsService(tournamentStore, matchStore, hub, logger)

	tournamentID := uuid.NewString()
	updates := hub.Subscribe(tournamentID)
	defer hub.Unsubscribe(tournamentID, updates)
	go func() {
		for msg := range updates {
			logger.Info("tournament event", slog.String("type", msg.Type))
		}
	}()

	teams := make([]models.Team, 0, len(cfg.TeamNames))
	for _, name := range cfg.TeamNames {
		teams = append(teams, models.Team{ID: uuid.NewString(), Name: name})
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	ctx := context.Background()

	generated, err := bracketService.Generate(ctx, services.GenerateParams{
		TournamentID: tournamentID,
		Name:         cfg.TournamentName,
		Format:       cfg.Format,
		Teams:        teams,
		Rand:         rng,
	})
	if err != nil {
		logger.Error("failed to generate bracket", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("bracket ready", slog.Int("matches", len(generated)))

	allowDraw := cfg.Format == models.FormatRoundRobin
	if err := playAll(ctx, matchService, tournamentID, rng, allowDraw); err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}

	placements, err := standingsService.Compute(ctx, tournamentID)
	if err != nil {
		logger.Error("failed to compute standings", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("\nFinal standings for %q (%s):\n", cfg.TournamentName, cfg.Format)
	for _, row := range placements {
		fmt.Printf("%3d. %s\n", row.Place, row.TeamName)
	}
}

// playAll submits results round by round until no playable match remains.
// Matches within a wave are submitted concurrently.
func playAll(ctx context.Context, matchService services.MatchService, tournamentID string, rng *rand.Rand, allowDraw bool) error {
	for {
		matches, err := matchService.ListByTournament(ctx, tournamentID)
		if err != nil {
			return err
		}

		var playable []*models.Match
		for _, m := range matches {
			if m.Status == models.MatchStatusPending && m.HasBothParticipants() {
				playable = append(playable, m)
			}
		}
		if len(playable) == 0 {
			return nil
		}

		type result struct {
			id             uuid.UUID
			scoreA, scoreB int
		}
		results := make([]result, 0, len(playable))
		for _, m := range playable {
			scoreA, scoreB := rng.Intn(5), rng.Intn(5)
			for scoreA == scoreB && !allowDraw {
				scoreB = rng.Intn(5)
			}
			results = append(results, result{id: m.ID, scoreA: scoreA, scoreB: scoreB})
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, r := range results {
			r := r
			g.Go(func() error {
				_, err := matchService.SubmitResult(gctx, r.id, r.scoreA, r.scoreB)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}
