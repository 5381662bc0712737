package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ReminderStream carries deadline-reminder events from the expiry job to
// the notifier workers. The job only publishes; delivery policy lives on
// the consumer side.
const ReminderStream = "reminders:stream"

// TenderChannel is the realtime pub/sub channel for one company's tender
// changes; the websocket handler subscribes to it.
func TenderChannel(companyID string) string {
	return "tenders:" + companyID + ":events"
}

type ReminderEvent struct {
	TenderID   string   `json:"tender_id"`
	Title      string   `json:"title"` // nickname or bid number
	BidNumber  string   `json:"bid_number"`
	Company    string   `json:"company"`
	Deadline   string   `json:"deadline"` // formatted DD-MM-YYYY HH:MM
	Recipients []string `json:"recipients"`
}

type TenderEvent struct {
	Type     string `json:"type"` // created | updated | deleted
	TenderID string `json:"tender_id"`
}

type Publisher interface {
	PublishReminder(ctx context.Context, ev ReminderEvent) error
	PublishTenderChange(ctx context.Context, companyID string, ev TenderEvent) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishReminder(ctx context.Context, ev ReminderEvent) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: ReminderStream,
		Values: map[string]any{
			"tender_id":  ev.TenderID,
			"title":      ev.Title,
			"bid_number": ev.BidNumber,
			"company":    ev.Company,
			"deadline":   ev.Deadline,
			"recipients": strings.Join(ev.Recipients, ","),
		},
	}).Err()
}

func (p *RedisPublisher) PublishTenderChange(ctx context.Context, companyID string, ev TenderEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, TenderChannel(companyID), b).Err()
}
