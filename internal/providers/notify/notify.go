package notify

import (
	"context"
	"fmt"

	"github.com/gemtrack/gemtrack/internal/events"
)

// Notifier delivers one deadline reminder. Delivery is best effort; the
// worker never retries a failed send.
type Notifier interface {
	Send(ctx context.Context, ev events.ReminderEvent) error
}

// Message renders the reminder body shared by all backends.
func Message(ev events.ReminderEvent) string {
	return fmt.Sprintf("Tender %q (bid %s, %s) closes at %s",
		ev.Title, ev.BidNumber, ev.Company, ev.Deadline)
}
