package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/uniplay/tournament-engine/models"
)

// Config holds the simulator's parameters.
type Config struct {
	TournamentName string
	Format         models.Format
	TeamNames      []string
	Seed           int64
}

var defaultTeams = []string{
	"Arctic Wolves", "Border Collies", "Crimson Tide", "Dust Devils",
	"Ember Foxes", "Frostbite", "Granite Owls", "Harbor Sharks",
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TournamentName: getEnvOrDefault("TOURNAMENT_NAME", "Simulated Cup"),
		TeamNames:      defaultTeams,
	}

	format := models.Format(getEnvOrDefault("TOURNAMENT_FORMAT", string(models.FormatSingleElimination)))
	switch format {
	case models.FormatSingleElimination, models.FormatDoubleElimination, models.FormatRoundRobin:
		cfg.Format = format
	default:
		return nil, fmt.Errorf("invalid TOURNAMENT_FORMAT %q (want single, double or round_robin)", format)
	}

	if raw := os.Getenv("TOURNAMENT_TEAMS"); raw != "" {
		var names []string
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) < 2 {
			return nil, fmt.Errorf("TOURNAMENT_TEAMS must list at least 2 teams, got %d", len(names))
		}
		cfg.TeamNames = names
	}

	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RANDOM_SEED environment variable: %w", err)
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
