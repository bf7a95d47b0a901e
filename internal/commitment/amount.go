package commitment

import (
	"strings"

	"github.com/holiman/uint256"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// ParseAmount разбирает десятичную сумму в минимальных единицах валюты.
// Отрицательные значения и значения шире 256 бит отклоняются.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, models.InvalidInput("amount is required")
	}
	if strings.HasPrefix(s, "-") {
		return nil, models.InvalidInput("amount must not be negative")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, models.InvalidInput("amount %q is not a decimal integer", s)
		}
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, models.InvalidInput("amount %q exceeds 256 bits", s)
	}
	return amount, nil
}
