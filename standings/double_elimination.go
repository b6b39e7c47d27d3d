package standings

import (
	"fmt"
	"sort"

	"github.com/uniplay/tournament-engine/models"
)

type DoubleEliminationRanking struct{}

func NewDoubleEliminationRanking() RankingStrategy {
	return &DoubleEliminationRanking{}
}

func (r *DoubleEliminationRanking) GetName() string {
	return "DoubleElimination"
}

type lossRecord struct {
	round   int
	bracket models.BracketSide
}

// Compute ranks the grand final winner first, then everyone else by loss
// count ascending and the depth of their last loss descending. Winners and
// losers rounds are numbered on independent scales, so the depth comparison
// offsets winners-bracket rounds past the deepest losers round; a grand
// final defeat always outranks a losers-bracket exit. A team sees at most
// one winners-bracket loss, one losers-bracket loss and one grand final
// loss, in that chronological order.
func (r *DoubleEliminationRanking) Compute(teams []models.Team, matches []*models.Match) ([]models.Standing, error) {
	if err := ensureFinished(matches); err != nil {
		return nil, err
	}

	var grandFinal *models.Match
	for _, m := range matches {
		if m.Bracket != models.BracketLosers && (grandFinal == nil || m.Round > grandFinal.Round) {
			grandFinal = m
		}
	}
	if grandFinal == nil || grandFinal.WinnerID == nil {
		return nil, fmt.Errorf("%w: grand final undecided", ErrNoWinnerDetermined)
	}
	champion := *grandFinal.WinnerID

	maxLosersRound := 0
	for _, m := range matches {
		if m.Bracket == models.BracketLosers && m.Round > maxLosersRound {
			maxLosersRound = m.Round
		}
	}

	losses := make(map[string][]lossRecord, len(teams))
	for _, m := range matches {
		if m.WinnerID == nil {
			return nil, fmt.Errorf("%w: match %s", ErrNoWinnerDetermined, m.ID)
		}
		loser := m.LoserID()
		if loser == nil {
			continue
		}
		losses[*loser] = append(losses[*loser], lossRecord{round: m.Round, bracket: m.Bracket})
	}

	names := teamNames(teams)
	entries := make([]models.Standing, 0, len(teams))
	for _, t := range teams {
		e := models.Standing{TeamID: t.ID, TeamName: names[t.ID]}
		recs := losses[t.ID]
		e.Losses = len(recs)
		if last := lastLoss(recs); last != nil {
			round := last.round
			bracket := last.bracket
			e.LastLossRound = &round
			e.LastLossBracket = &bracket
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.TeamID == champion) != (b.TeamID == champion) {
			return a.TeamID == champion
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		ad, bd := lossDepth(a, maxLosersRound), lossDepth(b, maxLosersRound)
		if ad != bd {
			return ad > bd
		}
		return a.TeamName < b.TeamName
	})

	return assignPlaces(entries, func(a, b models.Standing) bool {
		if a.TeamID == champion || b.TeamID == champion {
			return false
		}
		return a.Losses == b.Losses &&
			lossDepth(a, maxLosersRound) == lossDepth(b, maxLosersRound)
	}), nil
}

// lastLoss picks the chronologically final defeat: the grand final (highest
// winners-bracket round) beats a losers-bracket exit, which beats the
// original winners-bracket defeat.
func lastLoss(recs []lossRecord) *lossRecord {
	var winners, losers *lossRecord
	for i := range recs {
		rec := recs[i]
		switch rec.bracket {
		case models.BracketLosers:
			losers = &rec
		default:
			if winners == nil || rec.round > winners.round {
				winners = &rec
			}
		}
	}
	// Two winners-bracket records mean the later one is the grand final.
	if countWinners(recs) >= 2 {
		return winners
	}
	if losers != nil {
		return losers
	}
	return winners
}

func countWinners(recs []lossRecord) int {
	n := 0
	for _, rec := range recs {
		if rec.bracket != models.BracketLosers {
			n++
		}
	}
	return n
}

// lossDepth projects a team's final defeat onto one monotone elimination
// scale: losers rounds keep their number, winners-bracket rounds are shifted
// past the deepest losers round. The only non-champion whose last loss sits
// in the winners bracket is the grand final loser, who went out later than
// anyone eliminated in the losers bracket.
func lossDepth(e models.Standing, maxLosersRound int) int {
	if e.LastLossRound == nil {
		return 0
	}
	if e.LastLossBracket != nil && *e.LastLossBracket == models.BracketWinners {
		return maxLosersRound + *e.LastLossRound
	}
	return *e.LastLossRound
}
