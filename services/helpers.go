package services

import "github.com/uniplay/tournament-engine/models"

// Allowed tournament lifecycle moves. Finished is terminal.
var allowedStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusRegistration: {models.StatusOngoing},
	models.StatusOngoing:      {models.StatusRegistration, models.StatusFinished},
}

func isValidStatusTransition(from, to models.TournamentStatus) bool {
	for _, allowed := range allowedStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
