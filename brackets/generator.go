package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/uniplay/tournament-engine/models"
)

var (
	ErrInsufficientParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrUnknownFormat            = errors.New("unknown bracket format")
)

// BracketMatch is a format-agnostic blueprint node. Builders link nodes by
// string UID; persistent ids are minted by the service layer when the graph
// is stored.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int
	Bracket      models.BracketSide

	// Participant slots hold team ids. A nil slot with the bye flag set can
	// never be filled; without the flag it awaits propagation.
	ParticipantA *string
	ParticipantB *string
	ByeA         bool
	ByeB         bool

	// WinnerID is set when the match is decided at construction time, i.e.
	// the match had a single real participant and no pending inbound feeds.
	WinnerID *string

	// Forward links, by UID. Wired once by the builder.
	WinnerToUID *string
	LoserToUID  *string
}

type GenerateBracketParams struct {
	Tournament *models.Tournament
	Teams      []models.Team

	// Rand pins the roster shuffle for reproducible brackets; nil means
	// time-seeded.
	Rand *rand.Rand
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// NewGenerator selects the builder for the given format.
func NewGenerator(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// buildEliminationTree creates every round of a knockout tree over the padded
// roster and wires the winner links: match i of round r feeds match i/2 of
// round r+1. Round 1 consumes the roster pairwise (slots 2i, 2i+1). The
// result is grouped by round so callers can attach loser links.
func buildEliminationTree(roster []*string, rounds int, side models.BracketSide, prefix string) [][]*BracketMatch {
	byRound := make([][]*BracketMatch, rounds)
	for r := 1; r <= rounds; r++ {
		count := len(roster) >> uint(r)
		byRound[r-1] = make([]*BracketMatch, count)
		for i := 0; i < count; i++ {
			byRound[r-1][i] = &BracketMatch{
				UID:          fmt.Sprintf("%s-R%d-M%d", prefix, r, i+1),
				Round:        r,
				OrderInRound: i + 1,
				Bracket:      side,
			}
		}
	}

	for i, m := range byRound[0] {
		m.ParticipantA = roster[2*i]
		m.ParticipantB = roster[2*i+1]
	}

	for r := 0; r < rounds-1; r++ {
		for i, m := range byRound[r] {
			m.WinnerToUID = &byRound[r+1][i/2].UID
		}
	}

	return byRound
}

func flattenRounds(groups ...[][]*BracketMatch) []*BracketMatch {
	var out []*BracketMatch
	for _, g := range groups {
		for _, round := range g {
			out = append(out, round...)
		}
	}
	return out
}
