package lifecycle

import (
	"fmt"
	"time"
)

// TimeLeft возвращает обратный отсчёт до срока в формате клиента.
func TimeLeft(deadline int64, now time.Time) string {
	total := time.Unix(deadline, 0).Sub(now)
	if total <= 0 {
		return "Ended"
	}

	secs := int64(total / time.Second)
	days := secs / 86400
	hours := secs / 3600 % 24
	minutes := secs / 60 % 60
	seconds := secs % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh left", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	default:
		return fmt.Sprintf("%dm %ds left", minutes, seconds)
	}
}
