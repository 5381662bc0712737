package models

import (
	"time"

	"github.com/lib/pq"
)

type Company struct {
	ID   string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:text" json:"name"`

	// distribution list for deadline reminders, editable from settings
	ReminderRecipients pq.StringArray `gorm:"column:reminder_recipients;type:text[]" json:"reminder_recipients"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Company) TableName() string { return "companies" }
