package standings

import (
	"errors"
	"fmt"

	"github.com/uniplay/tournament-engine/models"
)

var (
	ErrIncompleteTournament = errors.New("tournament has unfinished matches")
	ErrNoWinnerDetermined   = errors.New("finished match has no winner recorded")
	ErrUnknownFormat        = errors.New("no ranking strategy for format")
)

// RankingStrategy turns a completed match graph into the final placement
// list. Implementations are selected by tournament format and must produce a
// stable, fully ordered result: equal-key teams share a place and the next
// distinct key continues numbering from the count of teams placed so far.
type RankingStrategy interface {
	Compute(teams []models.Team, matches []*models.Match) ([]models.Standing, error)

	GetName() string
}

// NewStrategy selects the calculator for the given format.
func NewStrategy(format models.Format) (RankingStrategy, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationRanking(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationRanking(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinRanking(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func ensureFinished(matches []*models.Match) error {
	for _, m := range matches {
		if m.Status != models.MatchStatusFinished {
			return fmt.Errorf("%w: match %s is %s", ErrIncompleteTournament, m.ID, m.Status)
		}
	}
	return nil
}

func teamNames(teams []models.Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

// assignPlaces numbers a pre-sorted list: entries equal under sameGroup share
// a place, and each new group starts one past the number of teams already
// placed.
func assignPlaces(sorted []models.Standing, sameGroup func(a, b models.Standing) bool) []models.Standing {
	for i := range sorted {
		if i > 0 && sameGroup(sorted[i-1], sorted[i]) {
			sorted[i].Place = sorted[i-1].Place
		} else {
			sorted[i].Place = i + 1
		}
	}
	return sorted
}
