package brackets

import (
	"context"
	"fmt"

	"github.com/uniplay/tournament-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds a winners bracket identical to single elimination
// plus a losers bracket of 2*(rounds-1) rounds that absorbs every winners
// loser except the grand final's.
//
// Losers-bracket stage i spans two rounds of P/2^(i+1) matches each: the
// minor round 2i-1 pairs losers-bracket survivors, the major round 2i drops
// the losers of winners round i+1 in against them. Winners round 1 losers
// pair up directly in losers round 1. Every match therefore receives exactly
// two inbound participants. A single grand final takes both champions; no
// bracket reset is played.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	roster, rounds, err := normalizeElimination(params.Teams, params.Rand)
	if err != nil {
		return nil, err
	}

	total := len(roster)
	wb := buildEliminationTree(roster, rounds, models.BracketWinners, "W")

	grandFinal := &BracketMatch{
		UID:          "GF",
		Round:        rounds + 1,
		OrderInRound: 1,
		Bracket:      models.BracketWinners,
	}

	wbFinal := wb[rounds-1][0]
	wbFinal.WinnerToUID = &grandFinal.UID

	if rounds == 1 {
		// Two-entrant bracket: no losers rounds exist, the lone winners
		// match feeds both grand final slots.
		wbFinal.LoserToUID = &grandFinal.UID
		all := append(flattenRounds(wb), grandFinal)
		return resolveByes(all), nil
	}

	lbRounds := 2 * (rounds - 1)
	lb := make([][]*BracketMatch, lbRounds)
	for j := 1; j <= lbRounds; j++ {
		stage := (j + 1) / 2
		count := total >> uint(stage+1)
		lb[j-1] = make([]*BracketMatch, count)
		for i := 0; i < count; i++ {
			lb[j-1][i] = &BracketMatch{
				UID:          fmt.Sprintf("L-R%d-M%d", j, i+1),
				Round:        j,
				OrderInRound: i + 1,
				Bracket:      models.BracketLosers,
			}
		}
	}

	// Winners round 1 losers pair up in losers round 1.
	for i, m := range wb[0] {
		m.LoserToUID = &lb[0][i/2].UID
	}
	// Winners round r losers drop into the major losers round 2(r-1).
	for r := 2; r <= rounds; r++ {
		for i, m := range wb[r-1] {
			m.LoserToUID = &lb[2*(r-1)-1][i].UID
		}
	}

	// Survivors move minor->major at the same index, major->minor paired up.
	for j := 1; j < lbRounds; j++ {
		cur, next := lb[j-1], lb[j]
		for i, m := range cur {
			if len(cur) == len(next) {
				m.WinnerToUID = &next[i].UID
			} else {
				m.WinnerToUID = &next[i/2].UID
			}
		}
	}

	lbFinal := lb[lbRounds-1][0]
	lbFinal.WinnerToUID = &grandFinal.UID

	all := append(flattenRounds(wb, lb), grandFinal)
	return resolveByes(all), nil
}
