package services

import (
	"errors"

	"github.com/uniplay/tournament-engine/brackets"
	"github.com/uniplay/tournament-engine/standings"
)

// Engine error taxonomy. Every condition is local, synchronous and
// recoverable by the caller. Construction errors originate in the brackets
// package and calculator errors in the standings package; they are
// re-exported here so callers can match the whole taxonomy in one place.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrInsufficientParticipants = brackets.ErrInsufficientParticipants
	ErrUnknownFormat            = brackets.ErrUnknownFormat
	ErrDuplicateGeneration      = errors.New("matches already generated for this tournament")

	ErrInvalidStateTransition = errors.New("operation not allowed in the match's current status")
	ErrMatchNotReady          = errors.New("match is missing a participant")
	ErrInvalidResult          = errors.New("invalid result")
	ErrSlotConflict           = errors.New("downstream match slot already occupied")

	ErrIncompleteTournament = standings.ErrIncompleteTournament
	ErrNoWinnerDetermined   = standings.ErrNoWinnerDetermined

	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
)
