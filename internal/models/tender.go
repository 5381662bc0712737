package models

import (
	"time"

	"gorm.io/datatypes"
)

type TenderStatus string

const (
	TenderActive  TenderStatus = "active"
	TenderExpired TenderStatus = "expired"
)

// Tender is one uploaded bid document. Schema is owned by Supabase; gorm
// never migrates it in production.
type Tender struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID  string `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	UploadedBy string `gorm:"column:uploaded_by;type:uuid" json:"uploaded_by"`

	BidNumber    string  `gorm:"column:bid_number;type:text;index" json:"bid_number"`
	Nickname     *string `gorm:"column:nickname;type:text" json:"nickname"`
	Subject      string  `gorm:"column:subject;type:text" json:"subject"`
	ItemCategory string  `gorm:"column:item_category;type:text" json:"item_category"`

	// nil means the tender never expires by date
	BidEndDate *time.Time `gorm:"column:bid_end_date;index" json:"bid_end_date"`

	// object key in the tender-pdfs bucket; nil means no PDF attached
	FilePath *string `gorm:"column:file_path;type:text" json:"file_path"`

	// persisted lifecycle status; a cache of the deadline-derived value,
	// display code always re-derives from bid_end_date
	Status TenderStatus `gorm:"column:status;type:text;index" json:"status"`

	// participated-bids tracking, updated from portal screenshots
	IsParticipated   bool    `gorm:"column:is_participated" json:"is_participated"`
	EvaluationStatus *string `gorm:"column:evaluation_status;type:text" json:"evaluation_status"`

	// raw extractor payload, kept for re-parsing and debugging
	Extraction datatypes.JSON `gorm:"column:extraction" json:"extraction,omitempty"`

	Items []ChecklistItem `gorm:"foreignKey:TenderID" json:"checklist_items"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Tender) TableName() string { return "tenders" }

// Title is the name shown in reminders and list rows: the user nickname
// when set, the bid number otherwise.
func (t *Tender) Title() string {
	if t.Nickname != nil && *t.Nickname != "" {
		return *t.Nickname
	}
	return t.BidNumber
}
