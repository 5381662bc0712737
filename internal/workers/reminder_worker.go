package workers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/providers/notify"
)

// ReminderWorkerPool consumes reminder events from the Redis stream and
// hands them to the configured notifier. Delivery failures are logged and
// the message is acked anyway; the expiry job re-notifies on its next run
// while the deadline is still inside the 24h window.
type ReminderWorkerPool struct {
	Redis      *redis.Client
	Notifier   notify.Notifier
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ReminderWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Notifier == nil {
		return errors.New("ReminderWorkerPool missing dependency: Redis/Notifier must be set")
	}
	if p.Stream == "" {
		p.Stream = events.ReminderStream
	}
	if p.Group == "" {
		p.Group = "reminder-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ReminderWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ReminderWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	ev := events.ReminderEvent{
		TenderID:  getStr("tender_id"),
		Title:     getStr("title"),
		BidNumber: getStr("bid_number"),
		Company:   getStr("company"),
		Deadline:  getStr("deadline"),
	}
	if rec := getStr("recipients"); rec != "" {
		ev.Recipients = strings.Split(rec, ",")
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"tender_id":  ev.TenderID,
		"bid_number": ev.BidNumber,
	})

	if ev.TenderID == "" || ev.BidNumber == "" {
		log.Warn("dropping malformed reminder event")
		return
	}

	if err := p.Notifier.Send(ctx, ev); err != nil {
		log.WithError(err).Warn("reminder delivery failed")
		return
	}
	log.Debug("reminder delivered")
}
