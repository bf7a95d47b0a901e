// Package lifecycle выводит фазу тендера из сроков и статуса и решает,
// какие действия допустимы в этой фазе.
package lifecycle

import (
	"time"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// DerivePhase возвращает фазу тендера на момент now.
// Границы включаются в следующую фазу: ровно в biddingDeadline приём ставок уже закрыт,
// ровно в revealDeadline раскрытие уже закрыто.
func DerivePhase(status models.TenderStatus, now time.Time, biddingDeadline, revealDeadline int64) (models.Phase, error) {
	switch status {
	case models.StatusOpen:
		return timePhase(now.Unix(), biddingDeadline, revealDeadline), nil
	case models.StatusBiddingClosed:
		p := timePhase(now.Unix(), biddingDeadline, revealDeadline)
		if p == models.PhaseBidding {
			p = models.PhaseReveal
		}
		return p, nil
	case models.StatusRevealClosed:
		return models.PhaseAwaitingClose, nil
	case models.StatusFinalized:
		return models.PhaseFinalized, nil
	case models.StatusCanceled:
		return models.PhaseCanceled, nil
	}
	return 0, models.InvalidInput("unknown tender status %d", status)
}

// PhaseOf - то же, что DerivePhase, для загруженного тендера.
func PhaseOf(t *models.Tender, now time.Time) (models.Phase, error) {
	return DerivePhase(t.Status, now, t.BiddingDeadline, t.RevealDeadline)
}

func timePhase(now, biddingDeadline, revealDeadline int64) models.Phase {
	switch {
	case now < biddingDeadline:
		return models.PhaseBidding
	case now < revealDeadline:
		return models.PhaseReveal
	default:
		return models.PhaseAwaitingClose
	}
}
