package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniplay/tournament-engine/models"
	"github.com/uniplay/tournament-engine/store"
)

type testEnv struct {
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	brackets    BracketService
	results     MatchService
	standings   StandingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tournaments := store.NewTournamentStore()
	matches := store.NewMatchStore()
	return &testEnv{
		tournaments: tournaments,
		matches:     matches,
		brackets:    NewBracketService(tournaments, matches, nil, logger),
		results:     NewMatchService(tournaments, matches, nil, logger),
		standings:   NewStandingsService(tournaments, matches, nil, logger),
	}
}

func testTeams(n int) []models.Team {
	teams := make([]models.Team, 0, n)
	for i := 0; i < n; i++ {
		teams = append(teams, models.Team{
			ID:   fmt.Sprintf("team-%02d", i+1),
			Name: fmt.Sprintf("Team %02d", i+1),
		})
	}
	return teams
}

func (e *testEnv) generate(t *testing.T, id string, format models.Format, teams int, seed int64) []*models.Match {
	t.Helper()
	generated, err := e.brackets.Generate(context.Background(), GenerateParams{
		TournamentID: id,
		Name:         "Test Cup",
		Format:       format,
		Teams:        testTeams(teams),
		Rand:         rand.New(rand.NewSource(seed)),
	})
	require.NoError(t, err)
	return generated
}

// playAll submits a decisive result for every playable match, wave by wave,
// until the whole graph is finished.
func (e *testEnv) playAll(t *testing.T, tournamentID string) {
	t.Helper()
	for wave := 0; wave < 64; wave++ {
		matches, err := e.results.ListByTournament(context.Background(), tournamentID)
		require.NoError(t, err)

		played := false
		for _, m := range matches {
			if m.Status == models.MatchStatusPending && m.HasBothParticipants() {
				_, err := e.results.SubmitResult(context.Background(), m.ID, 2, 1)
				require.NoError(t, err)
				played = true
			}
		}
		if !played {
			for _, m := range matches {
				require.Equal(t, models.MatchStatusFinished, m.Status,
					"match %s left unplayable", m.ID)
			}
			return
		}
	}
	t.Fatal("tournament did not converge")
}

func TestGenerateCreatesTournamentAndGraph(t *testing.T) {
	env := newTestEnv(t)
	generated := env.generate(t, "t1", models.FormatSingleElimination, 8, 1)
	require.Len(t, generated, 7)

	tournament, err := env.brackets.GetTournament(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, tournament.Status)
	assert.Equal(t, models.FormatSingleElimination, tournament.Format)
	assert.Len(t, tournament.Teams, 8)

	stored, err := env.results.ListByTournament(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, stored, 7)
	for _, m := range stored {
		assert.Equal(t, "t1", m.TournamentID)
	}
}

func TestGenerateLinksResolveToStoredMatches(t *testing.T) {
	env := newTestEnv(t)
	generated := env.generate(t, "t1", models.FormatDoubleElimination, 8, 1)

	known := map[string]bool{}
	for _, m := range generated {
		known[m.ID.String()] = true
	}
	for _, m := range generated {
		if m.NextMatchWinID != nil {
			assert.True(t, known[m.NextMatchWinID.String()], "dangling winner link on %s", m.ID)
		}
		if m.NextMatchLossID != nil {
			assert.True(t, known[m.NextMatchLossID.String()], "dangling loser link on %s", m.ID)
		}
	}
}

func TestGenerateRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.generate(t, "t1", models.FormatSingleElimination, 4, 1)

	_, err := env.brackets.Generate(context.Background(), GenerateParams{
		TournamentID: "t1",
		Format:       models.FormatSingleElimination,
		Teams:        testTeams(4),
	})
	require.ErrorIs(t, err, ErrDuplicateGeneration)
}

func TestGenerateRejectsInsufficientParticipants(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.brackets.Generate(context.Background(), GenerateParams{
		TournamentID: "t1",
		Format:       models.FormatSingleElimination,
		Teams:        testTeams(1),
	})
	require.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.brackets.Generate(context.Background(), GenerateParams{
		TournamentID: "t1",
		Format:       models.Format("swiss"),
		Teams:        testTeams(4),
	})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestGenerateWithByesSeedsStaticWinners(t *testing.T) {
	env := newTestEnv(t)
	generated := env.generate(t, "t1", models.FormatSingleElimination, 3, 1)
	require.Len(t, generated, 3)

	var decided *models.Match
	for _, m := range generated {
		if m.Status == models.MatchStatusFinished {
			require.Nil(t, decided, "only one construction-time bye expected")
			decided = m
		}
	}
	require.NotNil(t, decided)
	require.NotNil(t, decided.WinnerID)
	assert.True(t, decided.IsBye())

	// The bye winner is already seated in the next round.
	require.NotNil(t, decided.NextMatchWinID)
	next, err := env.results.GetMatch(context.Background(), *decided.NextMatchWinID)
	require.NoError(t, err)
	seated := (next.ParticipantA != nil && *next.ParticipantA == *decided.WinnerID) ||
		(next.ParticipantB != nil && *next.ParticipantB == *decided.WinnerID)
	assert.True(t, seated)
}

func TestDeleteMatchesReopensForRegeneration(t *testing.T) {
	env := newTestEnv(t)
	env.generate(t, "t1", models.FormatSingleElimination, 4, 1)

	require.NoError(t, env.brackets.DeleteMatches(context.Background(), "t1"))

	tournament, err := env.brackets.GetTournament(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistration, tournament.Status)

	stored, err := env.results.ListByTournament(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, stored)

	regenerated := env.generate(t, "t1", models.FormatSingleElimination, 4, 2)
	assert.Len(t, regenerated, 3)
}

func TestDeleteMatchesRejectsFinishedTournament(t *testing.T) {
	env := newTestEnv(t)
	env.generate(t, "t1", models.FormatSingleElimination, 4, 1)
	env.playAll(t, "t1")
	_, err := env.standings.Compute(context.Background(), "t1")
	require.NoError(t, err)

	err = env.brackets.DeleteMatches(context.Background(), "t1")
	require.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
}

func TestDeleteMatchesUnknownTournament(t *testing.T) {
	env := newTestEnv(t)
	err := env.brackets.DeleteMatches(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
