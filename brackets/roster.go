package brackets

import (
	"math/rand"
	"time"

	"github.com/uniplay/tournament-engine/models"
)

// shuffleTeamIDs copies the roster as a slice of team ids in random order.
// Callers pin the order by supplying their own rand source.
func shuffleTeamIDs(teams []models.Team, rng *rand.Rand) []*string {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	ids := make([]*string, len(teams))
	for i := range teams {
		id := teams[i].ID
		ids[i] = &id
	}
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// normalizeElimination shuffles the roster and pads it with byes up to the
// smallest power of two. Byes are laid out so that no round-1 pair holds two
// of them: real-vs-real pairs come first, then one (team, bye) pair per bye.
// Returns the padded roster and the number of knockout rounds.
func normalizeElimination(teams []models.Team, rng *rand.Rand) ([]*string, int, error) {
	n := len(teams)
	if n < 2 {
		return nil, 0, ErrInsufficientParticipants
	}

	ids := shuffleTeamIDs(teams, rng)

	size := 1
	rounds := 0
	for size < n {
		size <<= 1
		rounds++
	}
	byes := size - n

	roster := make([]*string, 0, size)
	realPairs := (n - byes) / 2
	next := 0
	for i := 0; i < realPairs; i++ {
		roster = append(roster, ids[next], ids[next+1])
		next += 2
	}
	for i := 0; i < byes; i++ {
		roster = append(roster, ids[next], nil)
		next++
	}

	return roster, rounds, nil
}

// normalizeRoundRobin shuffles the roster and, for an odd field, appends a
// single bye so the circle method pairs an even count. Pairings against the
// bye are skipped by the builder.
func normalizeRoundRobin(teams []models.Team, rng *rand.Rand) ([]*string, error) {
	if len(teams) < 2 {
		return nil, ErrInsufficientParticipants
	}
	roster := shuffleTeamIDs(teams, rng)
	if len(roster)%2 == 1 {
		roster = append(roster, nil)
	}
	return roster, nil
}
