package lifecycle

import (
	"time"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// Snapshot - всё, что нужно для решения о допустимости действия.
type Snapshot struct {
	Tender    *models.Tender
	Now       time.Time
	Actor     models.Address
	HasWinner bool
	Rated     bool
}

// Authorize проверяет, допустимо ли действие в текущей фазе и для текущего участника.
func Authorize(action models.Action, s Snapshot) error {
	if s.Tender == nil {
		return models.InvalidInput("tender is required")
	}
	phase, err := PhaseOf(s.Tender, s.Now)
	if err != nil {
		return err
	}

	switch action {
	case models.ActionSubmitCommitment:
		return requirePhase(action, phase, models.PhaseBidding)
	case models.ActionReveal:
		return requirePhase(action, phase, models.PhaseReveal)
	case models.ActionFinalize:
		return requirePhase(action, phase, models.PhaseAwaitingClose)
	case models.ActionCancel:
		if !phase.IsOpen() {
			return models.NewPhaseViolation(action, phase)
		}
		if !s.Tender.IsCreator(s.Actor) {
			return models.NotAuthorized("only the creator can cancel tender %d", s.Tender.ID)
		}
		return nil
	case models.ActionRate:
		if err := requirePhase(action, phase, models.PhaseFinalized); err != nil {
			return err
		}
		if !s.Tender.IsCreator(s.Actor) {
			return models.NotAuthorized("only the creator can rate the winner of tender %d", s.Tender.ID)
		}
		if !s.HasWinner || s.Rated {
			return models.NewPhaseViolation(action, phase)
		}
		return nil
	}
	return models.InvalidInput("unknown action %d", action)
}

// LegalActions возвращает действия, которые Authorize сейчас разрешает.
func LegalActions(s Snapshot) []models.Action {
	var legal []models.Action
	for _, a := range models.Actions {
		if Authorize(a, s) == nil {
			legal = append(legal, a)
		}
	}
	return legal
}

func requirePhase(action models.Action, phase, want models.Phase) error {
	if phase != want {
		return models.NewPhaseViolation(action, phase)
	}
	return nil
}
