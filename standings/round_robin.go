package standings

import (
	"fmt"
	"sort"

	"github.com/uniplay/tournament-engine/models"
)

type RoundRobinRanking struct{}

func NewRoundRobinRanking() RankingStrategy {
	return &RoundRobinRanking{}
}

func (r *RoundRobinRanking) GetName() string {
	return "RoundRobin"
}

// Compute accumulates a classic points table: 3 for a win, 1 for a draw,
// 0 for a loss. Teams are ordered by points, then goal difference, then
// goals scored, with the team name as the final deterministic tie-break.
// Teams equal on points, difference and scored share a place.
func (r *RoundRobinRanking) Compute(teams []models.Team, matches []*models.Match) ([]models.Standing, error) {
	if err := ensureFinished(matches); err != nil {
		return nil, err
	}

	names := teamNames(teams)
	table := make(map[string]*models.Standing, len(teams))
	for _, t := range teams {
		table[t.ID] = &models.Standing{TeamID: t.ID, TeamName: names[t.ID]}
	}

	for _, m := range matches {
		if !m.HasBothParticipants() {
			return nil, fmt.Errorf("%w: match %s is missing a participant", ErrNoWinnerDetermined, m.ID)
		}
		a, b := table[*m.ParticipantA], table[*m.ParticipantB]
		if a == nil || b == nil {
			continue
		}
		a.GamesPlayed++
		b.GamesPlayed++
		a.ScoreFor += m.ScoreA
		a.ScoreAgainst += m.ScoreB
		b.ScoreFor += m.ScoreB
		b.ScoreAgainst += m.ScoreA

		switch {
		case m.WinnerID == nil:
			a.Draws++
			b.Draws++
			a.Points++
			b.Points++
		case *m.WinnerID == *m.ParticipantA:
			a.Wins++
			a.Points += 3
			b.Losses++
		default:
			b.Wins++
			b.Points += 3
			a.Losses++
		}
	}

	entries := make([]models.Standing, 0, len(teams))
	for _, t := range teams {
		e := table[t.ID]
		e.ScoreDifference = e.ScoreFor - e.ScoreAgainst
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ScoreDifference != b.ScoreDifference {
			return a.ScoreDifference > b.ScoreDifference
		}
		if a.ScoreFor != b.ScoreFor {
			return a.ScoreFor > b.ScoreFor
		}
		return a.TeamName < b.TeamName
	})

	return assignPlaces(entries, func(a, b models.Standing) bool {
		return a.Points == b.Points && a.ScoreDifference == b.ScoreDifference && a.ScoreFor == b.ScoreFor
	}), nil
}
