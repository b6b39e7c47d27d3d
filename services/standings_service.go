package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uniplay/tournament-engine/events"
	"github.com/uniplay/tournament-engine/models"
	"github.com/uniplay/tournament-engine/standings"
	"github.com/uniplay/tournament-engine/store"
)

// StandingsService computes the final placement list once every match of a
// tournament is finished, and moves the tournament to its terminal state.
// The computed list is retained on the tournament as static history.
type StandingsService interface {
	Compute(ctx context.Context, tournamentID string) ([]models.Standing, error)
}

type standingsService struct {
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	hub         events.Broadcaster
	logger      *slog.Logger
}

func NewStandingsService(
	tournaments *store.TournamentStore,
	matches *store.MatchStore,
	hub events.Broadcaster,
	logger *slog.Logger,
) StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsService{
		tournaments: tournaments,
		matches:     matches,
		hub:         hub,
		logger:      logger,
	}
}

func (s *standingsService) Compute(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	tournament, err := s.tournaments.Get(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	if tournament.Status == models.StatusFinished {
		return tournament.Standings, nil
	}

	matches := s.matches.ListByTournament(tournamentID)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: tournament %s has no matches", ErrIncompleteTournament, tournamentID)
	}

	strategy, err := standings.NewStrategy(tournament.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, tournament.Format)
	}

	placements, err := strategy.Compute(tournament.Teams, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s standings for tournament %s: %w", strategy.GetName(), tournamentID, err)
	}

	if _, err := s.tournaments.Update(tournamentID, func(t *models.Tournament) error {
		if !isValidStatusTransition(t.Status, models.StatusFinished) {
			return fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, models.StatusFinished)
		}
		t.Status = models.StatusFinished
		t.Standings = placements
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("tournament finished",
		slog.String("tournament_id", tournamentID),
		slog.String("strategy", strategy.GetName()),
		slog.Int("placements", len(placements)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentID, events.Message{
			Type:    events.TypeTournamentFinished,
			Payload: placements,
		})
	}
	return placements, nil
}
