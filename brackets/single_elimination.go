package brackets

import (
	"context"

	"github.com/uniplay/tournament-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds the full knockout tree up front. The padded roster
// of P slots yields exactly P-1 matches over log2(P) rounds; round-1 matches
// with a single real participant come out already decided, their winner
// seated in the next round.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	roster, rounds, err := normalizeElimination(params.Teams, params.Rand)
	if err != nil {
		return nil, err
	}

	tree := buildEliminationTree(roster, rounds, models.BracketWinners, "W")
	return resolveByes(flattenRounds(tree)), nil
}
