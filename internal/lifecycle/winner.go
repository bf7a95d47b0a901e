package lifecycle

import (
	"strings"

	"github.com/holiman/uint256"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// SelectWinner повторяет выбор победителя леджером: среди раскрытых ставок
// не ниже minBid побеждает минимальная, при равенстве - раскрытая раньше,
// затем - с меньшим адресом.
func SelectWinner(minBid *uint256.Int, commitments []models.Commitment, selectedAt int64) (*models.Winner, bool) {
	var best *models.Commitment
	for i := range commitments {
		c := &commitments[i]
		if !c.Revealed || c.RevealedAmount == nil {
			continue
		}
		if minBid != nil && c.RevealedAmount.Lt(minBid) {
			continue
		}
		if best == nil || better(c, best) {
			best = c
		}
	}
	if best == nil {
		return nil, false
	}
	return &models.Winner{
		TenderID:   best.TenderID,
		Bidder:     best.Bidder,
		Amount:     new(uint256.Int).Set(best.RevealedAmount),
		SelectedAt: selectedAt,
	}, true
}

func better(c, best *models.Commitment) bool {
	if cmp := c.RevealedAmount.Cmp(best.RevealedAmount); cmp != 0 {
		return cmp < 0
	}
	if c.RevealedAt != best.RevealedAt {
		return c.RevealedAt < best.RevealedAt
	}
	return strings.ToLower(string(c.Bidder)) < strings.ToLower(string(best.Bidder))
}
