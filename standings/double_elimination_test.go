package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniplay/tournament-engine/models"
)

// Four-team double elimination, Alpha untouched, Charlie loses only the grand
// final, Bravo falls in the losers final and Delta in losers round 1.
func fourTeamDoubleElim() []*models.Match {
	return []*models.Match{
		played(1, 1, models.BracketWinners, "Alpha", "Bravo", "Alpha"),
		played(1, 2, models.BracketWinners, "Charlie", "Delta", "Charlie"),
		played(2, 1, models.BracketWinners, "Alpha", "Charlie", "Alpha"),
		played(1, 1, models.BracketLosers, "Bravo", "Delta", "Bravo"),
		played(2, 1, models.BracketLosers, "Bravo", "Charlie", "Charlie"),
		played(3, 1, models.BracketWinners, "Alpha", "Charlie", "Alpha"),
	}
}

func TestDoubleEliminationRankingFourTeams(t *testing.T) {
	teams := namedTeams("Alpha", "Bravo", "Charlie", "Delta")

	result, err := NewDoubleEliminationRanking().Compute(teams, fourTeamDoubleElim())
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.Equal(t, []string{"Alpha", "Charlie", "Bravo", "Delta"},
		[]string{result[0].TeamName, result[1].TeamName, result[2].TeamName, result[3].TeamName})
	assert.Equal(t, []int{1, 2, 3, 4},
		[]int{result[0].Place, result[1].Place, result[2].Place, result[3].Place})

	// The champion never lost; everyone else went out with two defeats.
	assert.Equal(t, 0, result[0].Losses)
	for _, row := range result[1:] {
		assert.Equal(t, 2, row.Losses)
	}

	// Charlie's final defeat is the grand final itself.
	require.NotNil(t, result[1].LastLossRound)
	assert.Equal(t, 3, *result[1].LastLossRound)
	assert.Equal(t, models.BracketWinners, *result[1].LastLossBracket)

	// Bravo went out in the losers final, Delta a round earlier.
	assert.Equal(t, 2, *result[2].LastLossRound)
	assert.Equal(t, models.BracketLosers, *result[2].LastLossBracket)
	assert.Equal(t, 1, *result[3].LastLossRound)
}

func TestDoubleEliminationRankingChampionFromLosersBracket(t *testing.T) {
	teams := namedTeams("Alpha", "Bravo", "Charlie", "Delta")
	// Charlie drops to the losers bracket, fights back and takes the grand
	// final; one defeat does not keep a team from first place.
	matches := []*models.Match{
		played(1, 1, models.BracketWinners, "Alpha", "Bravo", "Alpha"),
		played(1, 2, models.BracketWinners, "Charlie", "Delta", "Delta"),
		played(2, 1, models.BracketWinners, "Alpha", "Delta", "Alpha"),
		played(1, 1, models.BracketLosers, "Bravo", "Charlie", "Charlie"),
		played(2, 1, models.BracketLosers, "Charlie", "Delta", "Charlie"),
		played(3, 1, models.BracketWinners, "Alpha", "Charlie", "Charlie"),
	}

	result, err := NewDoubleEliminationRanking().Compute(teams, matches)
	require.NoError(t, err)

	assert.Equal(t, "Charlie", result[0].TeamName)
	assert.Equal(t, 1, result[0].Place)
	assert.Equal(t, 1, result[0].Losses)
	assert.Equal(t, "Alpha", result[1].TeamName)
	assert.Equal(t, 2, result[1].Place)
}

func TestDoubleEliminationRankingSharedPlaces(t *testing.T) {
	teams := namedTeams("Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel")
	// Eight teams; Golf and Hotel both go out in losers round 1 with two
	// defeats each and must share a place.
	matches := []*models.Match{
		played(1, 1, models.BracketWinners, "Alpha", "Golf", "Alpha"),
		played(1, 2, models.BracketWinners, "Bravo", "Hotel", "Bravo"),
		played(1, 3, models.BracketWinners, "Charlie", "Echo", "Charlie"),
		played(1, 4, models.BracketWinners, "Delta", "Foxtrot", "Delta"),
		played(2, 1, models.BracketWinners, "Alpha", "Bravo", "Alpha"),
		played(2, 2, models.BracketWinners, "Charlie", "Delta", "Charlie"),
		played(3, 1, models.BracketWinners, "Alpha", "Charlie", "Alpha"),
		played(1, 1, models.BracketLosers, "Golf", "Hotel", "Golf"),
		played(1, 2, models.BracketLosers, "Echo", "Foxtrot", "Echo"),
		played(2, 1, models.BracketLosers, "Golf", "Bravo", "Bravo"),
		played(2, 2, models.BracketLosers, "Echo", "Delta", "Delta"),
		played(3, 1, models.BracketLosers, "Bravo", "Delta", "Bravo"),
		played(4, 1, models.BracketLosers, "Bravo", "Charlie", "Charlie"),
		played(4, 1, models.BracketWinners, "Alpha", "Charlie", "Alpha"),
	}

	result, err := NewDoubleEliminationRanking().Compute(teams, matches)
	require.NoError(t, err)
	require.Len(t, result, 8)

	places := map[string]int{}
	for _, row := range result {
		places[row.TeamName] = row.Place
	}
	assert.Equal(t, 1, places["Alpha"])
	assert.Equal(t, 2, places["Charlie"])

	// Hotel and Foxtrot lost twice without winning a losers match, at the
	// same round of the same bracket.
	assert.Equal(t, places["Hotel"], places["Foxtrot"])
	assert.Less(t, places["Golf"], places["Hotel"])
}

func TestDoubleEliminationRankingGrandFinalLoserOutranksLosersFinalLoser(t *testing.T) {
	teams := namedTeams("Alpha", "Xray", "Yankee")
	// In a deep bracket the losers final carries a higher raw round number
	// than the grand final (here 6 versus 5). Xray lost the grand final and
	// must still place above Yankee, who fell in the losers final.
	matches := []*models.Match{
		played(3, 1, models.BracketWinners, "Alpha", "Yankee", "Alpha"),
		played(4, 1, models.BracketWinners, "Alpha", "Xray", "Alpha"),
		played(6, 1, models.BracketLosers, "Xray", "Yankee", "Xray"),
		played(5, 1, models.BracketWinners, "Alpha", "Xray", "Alpha"),
	}

	result, err := NewDoubleEliminationRanking().Compute(teams, matches)
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, []string{"Alpha", "Xray", "Yankee"},
		[]string{result[0].TeamName, result[1].TeamName, result[2].TeamName})
	assert.Equal(t, []int{1, 2, 3},
		[]int{result[0].Place, result[1].Place, result[2].Place})
}

func TestDoubleEliminationRankingRejectsUndecidedFinal(t *testing.T) {
	teams := namedTeams("Alpha", "Bravo")
	gf := played(2, 1, models.BracketWinners, "Alpha", "Bravo", "Alpha")
	gf.WinnerID = nil

	_, err := NewDoubleEliminationRanking().Compute(teams, []*models.Match{gf})
	require.ErrorIs(t, err, ErrNoWinnerDetermined)
}
