package lifecycle

import (
	"fmt"
	"time"

	"github.com/gemtrack/gemtrack/internal/models"
)

// Status is the display urgency derived from a tender deadline. It is
// computed at read time; the persisted tenders.status column is only a
// cache of the active/expired split.
type Status string

const (
	StatusUnknown  Status = "unknown"  // no deadline
	StatusExpired  Status = "expired"  // deadline passed
	StatusCritical Status = "critical" // under 24h left
	StatusWarning  Status = "warning"  // under 7 days left
	StatusNormal   Status = "normal"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Classify maps a deadline and a caller-supplied reference time to a display
// status. It never reads the wall clock. Exactly 24h out is warning, not
// critical; exactly 7d out is normal, not warning.
func Classify(deadline *time.Time, now time.Time) Status {
	if deadline == nil {
		return StatusUnknown
	}
	left := deadline.Sub(now)
	switch {
	case left <= 0:
		return StatusExpired
	case left < day:
		return StatusCritical
	case left < week:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Remaining renders the time left as a short label for list rows. Day and
// hour components floor the millisecond difference.
func Remaining(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return "N/A"
	}
	ms := deadline.Sub(now).Milliseconds()
	if ms <= 0 {
		return "Expired"
	}
	days := ms / day.Milliseconds()
	hours := (ms % day.Milliseconds()) / time.Hour.Milliseconds()
	if days >= 1 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh remaining", hours)
}

// DeriveStored collapses the display status to the persisted two-state
// column. A tender with no deadline stays active forever.
func DeriveStored(deadline *time.Time, now time.Time) models.TenderStatus {
	if Classify(deadline, now) == StatusExpired {
		return models.TenderExpired
	}
	return models.TenderActive
}
