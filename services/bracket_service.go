package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/uniplay/tournament-engine/brackets"
	"github.com/uniplay/tournament-engine/events"
	"github.com/uniplay/tournament-engine/models"
	"github.com/uniplay/tournament-engine/store"
)

// GenerateParams carries everything the external registration subsystem
// supplies at generation time. The roster is frozen once the graph exists.
type GenerateParams struct {
	TournamentID string
	Name         string
	Format       models.Format
	Teams        []models.Team

	// Rand pins the roster shuffle; nil means time-seeded.
	Rand *rand.Rand
}

type BracketService interface {
	Generate(ctx context.Context, params GenerateParams) ([]*models.Match, error)
	DeleteMatches(ctx context.Context, tournamentID string) error
	GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error)
}

type bracketService struct {
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	hub         events.Broadcaster
	logger      *slog.Logger

	// One generation at a time per tournament, to rule out duplicate or
	// partially linked graphs.
	genLocks sync.Map
}

func NewBracketService(
	tournaments *store.TournamentStore,
	matches *store.MatchStore,
	hub events.Broadcaster,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tournaments: tournaments,
		matches:     matches,
		hub:         hub,
		logger:      logger,
	}
}

func (s *bracketService) Generate(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	lock := s.generationLock(params.TournamentID)
	lock.Lock()
	defer lock.Unlock()

	if s.matches.CountByTournament(params.TournamentID) > 0 {
		return nil, fmt.Errorf("%w: tournament %s", ErrDuplicateGeneration, params.TournamentID)
	}

	tournament, err := s.tournaments.Get(params.TournamentID)
	switch {
	case errors.Is(err, store.ErrTournamentNotFound):
		tournament = &models.Tournament{
			ID:     params.TournamentID,
			Name:   params.Name,
			Format: params.Format,
			Status: models.StatusRegistration,
		}
		s.tournaments.Insert(tournament)
	case err != nil:
		return nil, fmt.Errorf("failed to load tournament %s: %w", params.TournamentID, err)
	case tournament.Status != models.StatusRegistration:
		return nil, fmt.Errorf("%w: tournament %s is %s", ErrTournamentInvalidStatusTransition, tournament.ID, tournament.Status)
	}

	generator, err := brackets.NewGenerator(params.Format)
	if err != nil {
		return nil, err
	}

	blueprint, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament: tournament,
		Teams:      params.Teams,
		Rand:       params.Rand,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bracket for tournament %s: %w", generator.GetName(), params.TournamentID, err)
	}

	generated := s.materialize(params.TournamentID, blueprint)
	s.matches.InsertMatches(generated)

	if _, err := s.tournaments.Update(params.TournamentID, func(t *models.Tournament) error {
		t.Format = params.Format
		t.Teams = params.Teams
		t.Status = models.StatusOngoing
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to activate tournament %s: %w", params.TournamentID, err)
	}

	s.logger.Info("bracket generated",
		slog.String("tournament_id", params.TournamentID),
		slog.String("format", string(params.Format)),
		slog.Int("teams", len(params.Teams)),
		slog.Int("matches", len(generated)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(params.TournamentID, events.Message{
			Type:    events.TypeBracketGenerated,
			Payload: generated,
		})
	}
	return generated, nil
}

// materialize mints persistent ids for the blueprint and rewires the UID
// links onto them. Matches decided at construction (byes) come out finished
// with their winner set; their advancement was already seated by the builder.
func (s *bracketService) materialize(tournamentID string, blueprint []*brackets.BracketMatch) []*models.Match {
	idByUID := make(map[string]uuid.UUID, len(blueprint))
	for _, bm := range blueprint {
		idByUID[bm.UID] = uuid.New()
	}

	out := make([]*models.Match, 0, len(blueprint))
	for _, bm := range blueprint {
		m := &models.Match{
			ID:           idByUID[bm.UID],
			TournamentID: tournamentID,
			Round:        bm.Round,
			OrderInRound: bm.OrderInRound,
			Bracket:      bm.Bracket,
			ParticipantA: bm.ParticipantA,
			ParticipantB: bm.ParticipantB,
			ByeA:         bm.ByeA,
			ByeB:         bm.ByeB,
			Status:       models.MatchStatusPending,
		}
		if bm.WinnerToUID != nil {
			if id, ok := idByUID[*bm.WinnerToUID]; ok {
				m.NextMatchWinID = &id
			}
		}
		if bm.LoserToUID != nil {
			if id, ok := idByUID[*bm.LoserToUID]; ok {
				m.NextMatchLossID = &id
			}
		}
		if bm.WinnerID != nil {
			m.WinnerID = bm.WinnerID
			m.Status = models.MatchStatusFinished
		}
		out = append(out, m)
	}
	return out
}

func (s *bracketService) DeleteMatches(ctx context.Context, tournamentID string) error {
	lock := s.generationLock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	tournament, err := s.tournaments.Get(tournamentID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	if tournament.Status == models.StatusFinished {
		return fmt.Errorf("%w: tournament %s already finished", ErrTournamentInvalidStatusTransition, tournamentID)
	}

	s.matches.DeleteByTournament(tournamentID)

	// Explicit purge reopens the tournament for regeneration.
	if _, err := s.tournaments.Update(tournamentID, func(t *models.Tournament) error {
		t.Status = models.StatusRegistration
		return nil
	}); err != nil {
		return fmt.Errorf("failed to reopen tournament %s: %w", tournamentID, err)
	}

	s.logger.Info("match graph purged", slog.String("tournament_id", tournamentID))
	return nil
}

func (s *bracketService) GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	tournament, err := s.tournaments.Get(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	return tournament, nil
}

func (s *bracketService) generationLock(tournamentID string) *sync.Mutex {
	l, _ := s.genLocks.LoadOrStore(tournamentID, &sync.Mutex{})
	return l.(*sync.Mutex)
}
