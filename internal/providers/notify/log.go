package notify

import (
	"context"

	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/sirupsen/logrus"
)

// LogNotifier records delivery intent instead of sending anything. It is
// the default backend when no provider is configured.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n *LogNotifier) Send(_ context.Context, ev events.ReminderEvent) error {
	n.Logger.WithFields(logrus.Fields{
		"tender_id":  ev.TenderID,
		"bid_number": ev.BidNumber,
		"recipients": ev.Recipients,
	}).Info(Message(ev))
	return nil
}
