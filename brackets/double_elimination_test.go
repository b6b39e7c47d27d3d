package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniplay/tournament-engine/models"
)

func TestDoubleEliminationFullField(t *testing.T) {
	blueprint := generate(t, NewDoubleEliminationGenerator(), 8, 1)
	// 7 winners matches, 2+2+1+1 losers matches, one grand final.
	require.Len(t, blueprint, 14)

	matches := byUID(blueprint)
	gf := matches["GF"]
	require.NotNil(t, gf)
	assert.Equal(t, 4, gf.Round)
	assert.Equal(t, models.BracketWinners, gf.Bracket)
	assert.Nil(t, gf.WinnerToUID)
	assert.Nil(t, gf.LoserToUID)

	// Both bracket finals feed the grand final.
	assert.Equal(t, "GF", *matches["W-R3-M1"].WinnerToUID)
	assert.Equal(t, "GF", *matches["L-R4-M1"].WinnerToUID)

	// Winners round 1 losers pair up in losers round 1.
	assert.Equal(t, "L-R1-M1", *matches["W-R1-M1"].LoserToUID)
	assert.Equal(t, "L-R1-M1", *matches["W-R1-M2"].LoserToUID)
	assert.Equal(t, "L-R1-M2", *matches["W-R1-M3"].LoserToUID)
	assert.Equal(t, "L-R1-M2", *matches["W-R1-M4"].LoserToUID)

	// Later winners losers drop into the major losers rounds.
	assert.Equal(t, "L-R2-M1", *matches["W-R2-M1"].LoserToUID)
	assert.Equal(t, "L-R2-M2", *matches["W-R2-M2"].LoserToUID)
	assert.Equal(t, "L-R4-M1", *matches["W-R3-M1"].LoserToUID)

	// Losers survivors: minor to major at the same index, then paired up.
	assert.Equal(t, "L-R2-M1", *matches["L-R1-M1"].WinnerToUID)
	assert.Equal(t, "L-R2-M2", *matches["L-R1-M2"].WinnerToUID)
	assert.Equal(t, "L-R3-M1", *matches["L-R2-M1"].WinnerToUID)
	assert.Equal(t, "L-R3-M1", *matches["L-R2-M2"].WinnerToUID)
	assert.Equal(t, "L-R4-M1", *matches["L-R3-M1"].WinnerToUID)

	checkFillable(t, blueprint)
}

func TestDoubleEliminationTwoTeams(t *testing.T) {
	blueprint := generate(t, NewDoubleEliminationGenerator(), 2, 1)
	require.Len(t, blueprint, 2)

	matches := byUID(blueprint)
	opener := matches["W-R1-M1"]
	gf := matches["GF"]
	require.NotNil(t, opener)
	require.NotNil(t, gf)

	// With two entrants there is no losers bracket: the opening match sends
	// winner and loser straight into the grand final.
	assert.Equal(t, "GF", *opener.WinnerToUID)
	assert.Equal(t, "GF", *opener.LoserToUID)
	assert.Nil(t, gf.WinnerToUID)

	checkFillable(t, blueprint)
}

func TestDoubleEliminationLosersBracketAbsorbsEveryLoss(t *testing.T) {
	blueprint := generate(t, NewDoubleEliminationGenerator(), 8, 2)
	matches := byUID(blueprint)

	// Every winners-bracket match except the grand final feeds its loser on.
	for _, m := range blueprint {
		if m.Bracket != models.BracketWinners || m.UID == "GF" {
			continue
		}
		require.NotNil(t, m.LoserToUID, "match %s", m.UID)
		target := matches[*m.LoserToUID]
		require.NotNil(t, target, "match %s", m.UID)
		if target.UID != "GF" {
			assert.Equal(t, models.BracketLosers, target.Bracket, "match %s", m.UID)
		}
	}

	// No losers-bracket match feeds a loser anywhere: two losses and you
	// are out.
	for _, m := range blueprint {
		if m.Bracket == models.BracketLosers {
			assert.Nil(t, m.LoserToUID, "match %s", m.UID)
		}
	}
}

func TestDoubleEliminationFillableAcrossFieldSizes(t *testing.T) {
	for n := 2; n <= 20; n++ {
		blueprint := generate(t, NewDoubleEliminationGenerator(), n, int64(n))
		checkFillable(t, blueprint)

		gf := byUID(blueprint)["GF"]
		require.NotNil(t, gf, "field of %d", n)
	}
}

func TestDoubleEliminationRejectsSingleTeam(t *testing.T) {
	_, err := NewDoubleEliminationGenerator().GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament: &models.Tournament{ID: "t1"},
		Teams:      testTeams(1),
	})
	require.ErrorIs(t, err, ErrInsufficientParticipants)
}
