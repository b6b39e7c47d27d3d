package brackets

import (
	"context"
	"fmt"

	"github.com/uniplay/tournament-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket pairs every team with every other team exactly once using
// the circle method: one roster position stays fixed while the rest rotate
// through total-1 rounds, pairing position i with position total-1-i.
// Pairings against the bye slot of an odd field are skipped, so no forward
// links and no undecidable matches exist in this format.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	roster, err := normalizeRoundRobin(params.Teams, params.Rand)
	if err != nil {
		return nil, err
	}

	total := len(roster)
	rounds := total - 1

	matches := make([]*BracketMatch, 0, total*(total-1)/2)
	for r := 1; r <= rounds; r++ {
		order := 0
		for i := 0; i < total/2; i++ {
			a := roster[i]
			b := roster[total-1-i]
			if a == nil || b == nil {
				continue
			}
			order++
			idA, idB := *a, *b
			matches = append(matches, &BracketMatch{
				UID:          fmt.Sprintf("RR-R%d-M%d", r, order),
				Round:        r,
				OrderInRound: order,
				Bracket:      models.BracketRoundRobin,
				ParticipantA: &idA,
				ParticipantB: &idB,
			})
		}

		// Rotate everyone but the fixed head.
		rotated := make([]*string, 0, total)
		rotated = append(rotated, roster[0], roster[total-1])
		rotated = append(rotated, roster[1:total-1]...)
		roster = rotated
	}

	return matches, nil
}
