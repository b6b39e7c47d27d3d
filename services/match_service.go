package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/uniplay/tournament-engine/events"
	"github.com/uniplay/tournament-engine/models"
	"github.com/uniplay/tournament-engine/store"
)

// MatchService runs the per-match state machine: pending -> finished on the
// normal path, finished -> disputed -> finished on the contested path.
// Every mutation, including the downstream propagation it triggers, commits
// as one atomic batch against the match arena.
type MatchService interface {
	GetMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error)
	SubmitResult(ctx context.Context, matchID uuid.UUID, scoreA, scoreB int) ([]*models.Match, error)
	RaiseDispute(ctx context.Context, matchID uuid.UUID, notes string) (*models.Match, error)
	ResolveDispute(ctx context.Context, matchID uuid.UUID, scoreA, scoreB int, notes string) ([]*models.Match, error)
}

type matchService struct {
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	hub         events.Broadcaster
	logger      *slog.Logger
}

func NewMatchService(
	tournaments *store.TournamentStore,
	matches *store.MatchStore,
	hub events.Broadcaster,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		tournaments: tournaments,
		matches:     matches,
		hub:         hub,
		logger:      logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	m, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return m, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	if _, err := s.tournaments.Get(tournamentID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	return s.matches.ListByTournament(tournamentID), nil
}

func (s *matchService) SubmitResult(ctx context.Context, matchID uuid.UUID, scoreA, scoreB int) ([]*models.Match, error) {
	current, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	tournament, err := s.tournaments.Get(current.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, current.TournamentID)
	}
	allowDraw := tournament.Format == models.FormatRoundRobin

	var updated []*models.Match
	err = s.matches.UpdateMatches(s.collectAffected(current), func(batch map[uuid.UUID]*models.Match) error {
		m := batch[matchID]
		if m.Status != models.MatchStatusPending && m.Status != models.MatchStatusOngoing {
			return fmt.Errorf("%w: cannot submit result for %s match %s", ErrInvalidStateTransition, m.Status, m.ID)
		}
		if !m.HasBothParticipants() {
			return fmt.Errorf("%w: match %s", ErrMatchNotReady, m.ID)
		}
		if err := validateScores(scoreA, scoreB, allowDraw); err != nil {
			return err
		}

		m.ScoreA = scoreA
		m.ScoreB = scoreB
		m.Status = models.MatchStatusFinished
		m.WinnerID = decideWinner(m, scoreA, scoreB)

		p := newPropagator(batch)
		if err := p.propagate(m, nil, nil); err != nil {
			return err
		}
		updated = sortedByRound(p.updatedMatches())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("result submitted",
		slog.String("tournament_id", current.TournamentID),
		slog.String("match_id", matchID.String()),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB))
	s.broadcast(current.TournamentID, events.TypeMatchUpdated, updated)
	return updated, nil
}

func (s *matchService) RaiseDispute(ctx context.Context, matchID uuid.UUID, notes string) (*models.Match, error) {
	current, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	var disputed *models.Match
	err = s.matches.UpdateMatches([]uuid.UUID{matchID}, func(batch map[uuid.UUID]*models.Match) error {
		m := batch[matchID]
		if m.Status != models.MatchStatusFinished {
			return fmt.Errorf("%w: cannot dispute %s match %s", ErrInvalidStateTransition, m.Status, m.ID)
		}
		if !m.HasBothParticipants() {
			return fmt.Errorf("%w: match %s was decided by a bye", ErrMatchNotReady, m.ID)
		}
		m.Status = models.MatchStatusDisputed
		m.WinnerID = nil
		appendNotes(m, notes)
		disputed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dispute raised",
		slog.String("tournament_id", current.TournamentID),
		slog.String("match_id", matchID.String()))
	s.broadcast(current.TournamentID, events.TypeMatchUpdated, []*models.Match{disputed})
	return disputed, nil
}

// ResolveDispute re-applies winner determination to a disputed match. If the
// previous result had already propagated, the stale downstream occupants are
// replaced rather than rejected; this is the one case where slot occupancy is
// deliberately overridden. The whole tournament graph is locked for the
// correction, since a replaced team may need to be chased through matches
// that finished in the meantime.
func (s *matchService) ResolveDispute(ctx context.Context, matchID uuid.UUID, scoreA, scoreB int, notes string) ([]*models.Match, error) {
	current, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	tournament, err := s.tournaments.Get(current.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, current.TournamentID)
	}
	allowDraw := tournament.Format == models.FormatRoundRobin

	// The pre-dispute winner is recoverable from the retained scores.
	oldWinner := decideWinner(current, current.ScoreA, current.ScoreB)
	var oldLoser *string
	if oldWinner != nil {
		loserCopy := *current.ParticipantA
		if *oldWinner == *current.ParticipantA {
			loserCopy = *current.ParticipantB
		}
		oldLoser = &loserCopy
	}

	all := s.matches.ListByTournament(current.TournamentID)
	ids := make([]uuid.UUID, 0, len(all))
	for _, m := range all {
		ids = append(ids, m.ID)
	}

	var updated []*models.Match
	err = s.matches.UpdateMatches(ids, func(batch map[uuid.UUID]*models.Match) error {
		m := batch[matchID]
		if m.Status != models.MatchStatusDisputed {
			return fmt.Errorf("%w: cannot resolve %s match %s", ErrInvalidStateTransition, m.Status, m.ID)
		}
		if !m.HasBothParticipants() {
			return fmt.Errorf("%w: match %s", ErrMatchNotReady, m.ID)
		}
		if err := validateScores(scoreA, scoreB, allowDraw); err != nil {
			return err
		}

		m.ScoreA = scoreA
		m.ScoreB = scoreB
		m.Status = models.MatchStatusFinished
		m.WinnerID = decideWinner(m, scoreA, scoreB)
		appendNotes(m, notes)

		p := newPropagator(batch)
		if err := p.propagate(m, oldWinner, oldLoser); err != nil {
			return err
		}
		updated = sortedByRound(p.updatedMatches())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dispute resolved",
		slog.String("tournament_id", current.TournamentID),
		slog.String("match_id", matchID.String()),
		slog.Int("updated_matches", len(updated)))
	s.broadcast(current.TournamentID, events.TypeMatchUpdated, updated)
	return updated, nil
}

// collectAffected gathers the ids the submission may touch: the match itself,
// its direct targets, and the winner chain behind any bye-slotted target,
// which auto-advances on arrival. Links are wired once at generation, so the
// walk over committed snapshots is stable.
func (s *matchService) collectAffected(m *models.Match) []uuid.UUID {
	ids := []uuid.UUID{m.ID}
	seen := map[uuid.UUID]bool{m.ID: true}

	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		if seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
		target, err := s.matches.Get(id)
		if err != nil {
			return
		}
		if target.IsBye() && target.NextMatchWinID != nil {
			walk(*target.NextMatchWinID)
		}
	}

	if m.NextMatchWinID != nil {
		walk(*m.NextMatchWinID)
	}
	if m.NextMatchLossID != nil {
		walk(*m.NextMatchLossID)
	}
	return ids
}

func (s *matchService) broadcast(tournamentID, msgType string, payload []*models.Match) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(tournamentID, events.Message{Type: msgType, Payload: payload})
}

func validateScores(scoreA, scoreB int, allowDraw bool) error {
	if scoreA < 0 || scoreB < 0 {
		return fmt.Errorf("%w: scores must be non-negative", ErrInvalidResult)
	}
	if scoreA == scoreB && !allowDraw {
		return fmt.Errorf("%w: elimination matches require a decisive winner", ErrInvalidResult)
	}
	return nil
}

// decideWinner maps a score pair onto a participant; nil on a draw.
func decideWinner(m *models.Match, scoreA, scoreB int) *string {
	switch {
	case scoreA > scoreB:
		id := *m.ParticipantA
		return &id
	case scoreB > scoreA:
		id := *m.ParticipantB
		return &id
	default:
		return nil
	}
}

func appendNotes(m *models.Match, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if m.DisputeNotes == nil || *m.DisputeNotes == "" {
		m.DisputeNotes = &notes
		return
	}
	joined := *m.DisputeNotes + "\n" + notes
	m.DisputeNotes = &joined
}

func sortedByRound(matches []*models.Match) []*models.Match {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Bracket != matches[j].Bracket {
			return matches[i].Bracket < matches[j].Bracket
		}
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].OrderInRound < matches[j].OrderInRound
	})
	return matches
}
