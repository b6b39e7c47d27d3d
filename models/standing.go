package models

// Standing is one row of a tournament's final placement list. Teams with
// equal ranking keys share a place. Only the fields relevant to the
// tournament's format are populated.
type Standing struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`
	Place    int    `json:"place"`

	// Elimination formats.
	EliminatedRound *int         `json:"eliminated_round,omitempty"`
	LastLossRound   *int         `json:"last_loss_round,omitempty"`
	LastLossBracket *BracketSide `json:"last_loss_bracket,omitempty"`

	// Round robin.
	GamesPlayed     int `json:"games_played,omitempty"`
	Wins            int `json:"wins,omitempty"`
	Draws           int `json:"draws,omitempty"`
	Losses          int `json:"losses,omitempty"`
	Points          int `json:"points,omitempty"`
	ScoreFor        int `json:"score_for,omitempty"`
	ScoreAgainst    int `json:"score_against,omitempty"`
	ScoreDifference int `json:"score_difference,omitempty"`
}
