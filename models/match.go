package models

import "github.com/google/uuid"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusOngoing  MatchStatus = "ongoing"
	MatchStatusDisputed MatchStatus = "disputed"
	MatchStatusFinished MatchStatus = "finished"
)

type BracketSide string

const (
	BracketWinners    BracketSide = "winners"
	BracketLosers     BracketSide = "losers"
	BracketRoundRobin BracketSide = "round_robin"
)

// Match is one node of a tournament's match graph.
//
// Participant slots hold team ids; a nil slot is either still awaiting
// propagation or, when the matching bye flag is set, permanently empty.
// The forward links NextMatchWinID/NextMatchLossID are wired once at
// generation time and only followed afterwards.
type Match struct {
	ID           uuid.UUID   `json:"id"`
	TournamentID string      `json:"tournament_id"`
	Round        int         `json:"round"`
	OrderInRound int         `json:"order_in_round"`
	Bracket      BracketSide `json:"bracket"`

	ParticipantA *string `json:"participant_a,omitempty"`
	ParticipantB *string `json:"participant_b,omitempty"`
	ByeA         bool    `json:"bye_a,omitempty"`
	ByeB         bool    `json:"bye_b,omitempty"`

	ScoreA   int     `json:"score_a"`
	ScoreB   int     `json:"score_b"`
	WinnerID *string `json:"winner_id,omitempty"`

	NextMatchWinID  *uuid.UUID `json:"next_match_win_id,omitempty"`
	NextMatchLossID *uuid.UUID `json:"next_match_loss_id,omitempty"`

	Status       MatchStatus `json:"status"`
	DisputeNotes *string     `json:"dispute_notes,omitempty"`
}

// HasBothParticipants reports whether both slots hold real teams.
func (m *Match) HasBothParticipants() bool {
	return m.ParticipantA != nil && m.ParticipantB != nil
}

// IsBye reports whether one of the slots can never be filled.
func (m *Match) IsBye() bool {
	return m.ByeA || m.ByeB
}

// LoserID returns the id of the losing team, or nil if the match has no
// decided winner or was short a participant (bye).
func (m *Match) LoserID() *string {
	if m.WinnerID == nil || !m.HasBothParticipants() {
		return nil
	}
	if *m.WinnerID == *m.ParticipantA {
		return m.ParticipantB
	}
	return m.ParticipantA
}

// Clone returns a deep copy; pointer fields are duplicated so the copy can be
// mutated without aliasing the original.
func (m *Match) Clone() *Match {
	c := *m
	c.ParticipantA = cloneString(m.ParticipantA)
	c.ParticipantB = cloneString(m.ParticipantB)
	c.WinnerID = cloneString(m.WinnerID)
	c.DisputeNotes = cloneString(m.DisputeNotes)
	c.NextMatchWinID = cloneUUID(m.NextMatchWinID)
	c.NextMatchLossID = cloneUUID(m.NextMatchLossID)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
