package models

import "time"

// JobRun is one recorded invocation of the expiry job, stored in MongoDB.
// Documents are TTL-expired after 30 days (see config.EnsureMongoIndexes).
type JobRun struct {
	RunID         string    `bson:"run_id" json:"run_id"`
	StartedAt     time.Time `bson:"started_at" json:"started_at"`
	FinishedAt    time.Time `bson:"finished_at" json:"finished_at"`
	RemindersSent int       `bson:"reminders_sent" json:"reminders_sent"`
	Deleted       int       `bson:"deleted" json:"deleted"`
	Cleanup       string    `bson:"cleanup" json:"cleanup"`
	Error         string    `bson:"error,omitempty" json:"error,omitempty"`
}
