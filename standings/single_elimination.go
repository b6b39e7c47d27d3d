package standings

import (
	"fmt"
	"sort"

	"github.com/uniplay/tournament-engine/models"
)

type SingleEliminationRanking struct{}

func NewSingleEliminationRanking() RankingStrategy {
	return &SingleEliminationRanking{}
}

func (r *SingleEliminationRanking) GetName() string {
	return "SingleElimination"
}

// Compute ranks teams by the round in which they were eliminated, deepest run
// first. The champion is assigned rounds+1 so it sorts above the runner-up,
// who fell in the final itself. Teams eliminated in the same round share a
// place.
func (r *SingleEliminationRanking) Compute(teams []models.Team, matches []*models.Match) ([]models.Standing, error) {
	if err := ensureFinished(matches); err != nil {
		return nil, err
	}

	totalRounds := 0
	for _, m := range matches {
		if m.Round > totalRounds {
			totalRounds = m.Round
		}
	}

	eliminated := make(map[string]int, len(teams))
	for _, t := range teams {
		eliminated[t.ID] = 0
	}

	ordered := make([]*models.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Round != ordered[j].Round {
			return ordered[i].Round < ordered[j].Round
		}
		return ordered[i].OrderInRound < ordered[j].OrderInRound
	})

	var final *models.Match
	for _, m := range ordered {
		if m.WinnerID == nil {
			return nil, fmt.Errorf("%w: match %s", ErrNoWinnerDetermined, m.ID)
		}
		if loser := m.LoserID(); loser != nil && eliminated[*loser] == 0 {
			eliminated[*loser] = m.Round
		}
		if m.Round == totalRounds {
			final = m
		}
	}
	if final == nil {
		return nil, fmt.Errorf("%w: no final match", ErrNoWinnerDetermined)
	}
	eliminated[*final.WinnerID] = totalRounds + 1

	names := teamNames(teams)
	entries := make([]models.Standing, 0, len(teams))
	for _, t := range teams {
		round := eliminated[t.ID]
		entries = append(entries, models.Standing{
			TeamID:          t.ID,
			TeamName:        names[t.ID],
			EliminatedRound: &round,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if *entries[i].EliminatedRound != *entries[j].EliminatedRound {
			return *entries[i].EliminatedRound > *entries[j].EliminatedRound
		}
		return entries[i].TeamName < entries[j].TeamName
	})

	return assignPlaces(entries, func(a, b models.Standing) bool {
		return *a.EliminatedRound == *b.EliminatedRound
	}), nil
}
