package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/uniplay/tournament-engine/models"
)

// propagator pushes the outcome of a finished match into its downstream
// slots. It operates on a locked batch of match copies, so every slot update
// and the triggering state change commit together or not at all.
type propagator struct {
	batch   map[uuid.UUID]*models.Match
	touched map[uuid.UUID]bool
}

func newPropagator(batch map[uuid.UUID]*models.Match) *propagator {
	return &propagator{batch: batch, touched: make(map[uuid.UUID]bool)}
}

// propagate advances src's winner and, when both participants were real
// teams, its loser. The replace arguments carry the previously propagated
// occupants during dispute-resolution correction; they are nil on the normal
// path.
func (p *propagator) propagate(src *models.Match, replaceWin, replaceLoss *string) error {
	p.touched[src.ID] = true

	if src.NextMatchWinID != nil && src.WinnerID != nil {
		if err := p.deliver(*src.NextMatchWinID, *src.WinnerID, replaceWin); err != nil {
			return err
		}
	}
	if src.NextMatchLossID != nil {
		if loser := src.LoserID(); loser != nil {
			if err := p.deliver(*src.NextMatchLossID, *loser, replaceLoss); err != nil {
				return err
			}
		}
	}
	return nil
}

// deliver seats teamID in the target match. Slot A is checked before slot B;
// a slot already holding teamID is left alone. When replace names a stale
// occupant seated by an earlier result of the same source match, that slot is
// overwritten instead, and the correction follows the stale team further
// downstream if the target had already finished.
func (p *propagator) deliver(targetID uuid.UUID, teamID string, replace *string) error {
	target, ok := p.batch[targetID]
	if !ok {
		return fmt.Errorf("%w: downstream match %s not in update set", ErrMatchNotFound, targetID)
	}

	if replace != nil && *replace != teamID {
		switch {
		case target.ParticipantA != nil && *target.ParticipantA == *replace:
			id := teamID
			target.ParticipantA = &id
			p.touched[target.ID] = true
			return p.correctDownstream(target, *replace, teamID)
		case target.ParticipantB != nil && *target.ParticipantB == *replace:
			id := teamID
			target.ParticipantB = &id
			p.touched[target.ID] = true
			return p.correctDownstream(target, *replace, teamID)
		}
	}

	if (target.ParticipantA != nil && *target.ParticipantA == teamID) ||
		(target.ParticipantB != nil && *target.ParticipantB == teamID) {
		return nil
	}

	id := teamID
	switch {
	case target.ParticipantA == nil && !target.ByeA:
		target.ParticipantA = &id
	case target.ParticipantB == nil && !target.ByeB:
		target.ParticipantB = &id
	default:
		return fmt.Errorf("%w: match %s has no free slot for team %s", ErrSlotConflict, target.ID, teamID)
	}
	p.touched[target.ID] = true

	// A bye slot never fills, so a single arrival decides the match.
	if target.IsBye() && target.Status == models.MatchStatusPending {
		target.Status = models.MatchStatusFinished
		target.WinnerID = &id
		return p.propagate(target, nil, nil)
	}
	return nil
}

// correctDownstream follows a replaced participant through an already
// finished target: the corrected team takes over the stale team's result and
// its onward slot, leaving the rest of the target's outcome untouched.
func (p *propagator) correctDownstream(target *models.Match, stale, fresh string) error {
	if target.Status != models.MatchStatusFinished {
		return nil
	}
	if target.WinnerID != nil && *target.WinnerID == stale {
		id := fresh
		target.WinnerID = &id
		if target.NextMatchWinID != nil {
			staleCopy := stale
			return p.deliver(*target.NextMatchWinID, fresh, &staleCopy)
		}
		return nil
	}
	if target.NextMatchLossID != nil {
		staleCopy := stale
		return p.deliver(*target.NextMatchLossID, fresh, &staleCopy)
	}
	return nil
}

// updatedMatches returns every match the propagation run modified.
func (p *propagator) updatedMatches() []*models.Match {
	out := make([]*models.Match, 0, len(p.touched))
	for id := range p.touched {
		if m, ok := p.batch[id]; ok {
			out = append(out, m)
		}
	}
	return out
}
