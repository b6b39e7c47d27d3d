package models

// Format selects the bracket construction and ranking rules for a tournament.
type Format string

const (
	FormatSingleElimination Format = "single"
	FormatDoubleElimination Format = "double"
	FormatRoundRobin        Format = "round_robin"
)

// TournamentStatus represents the tournament lifecycle.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusOngoing      TournamentStatus = "ongoing"
	StatusFinished     TournamentStatus = "finished"
)

// Tournament owns its match graph. The roster is frozen at generation time
// and Standings stays nil until the tournament reaches its terminal state.
type Tournament struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Format    Format           `json:"format"`
	Status    TournamentStatus `json:"status"`
	Teams     []Team           `json:"teams,omitempty"`
	Standings []Standing       `json:"standings,omitempty"`
}

// Clone returns a copy whose slices do not alias the original.
func (t *Tournament) Clone() *Tournament {
	c := *t
	if t.Teams != nil {
		c.Teams = make([]Team, len(t.Teams))
		copy(c.Teams, t.Teams)
	}
	if t.Standings != nil {
		c.Standings = make([]Standing, len(t.Standings))
		copy(c.Standings, t.Standings)
	}
	return &c
}
