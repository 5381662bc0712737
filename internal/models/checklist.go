package models

import "time"

// ChecklistItem is one compliance document requirement attached to a tender.
// Rows are created from the default checklist set when the tender is created
// and cascade-deleted with it.
type ChecklistItem struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenderID string `gorm:"column:tender_id;type:uuid;index" json:"tender_id"`

	Code     string `gorm:"column:code;type:text" json:"code"` // e.g. F-1
	Name     string `gorm:"column:name;type:text" json:"name"`
	Position int    `gorm:"column:position;type:integer" json:"position"`

	IsReady     bool `gorm:"column:is_ready" json:"is_ready"`
	IsSubmitted bool `gorm:"column:is_submitted" json:"is_submitted"`

	// object key in the compliance-docs bucket. The update flow forces
	// is_ready=true whenever this is set; there is no DB constraint.
	DocumentURL *string `gorm:"column:document_url;type:text" json:"document_url"`
	Notes       string  `gorm:"column:notes;type:text" json:"notes"`

	UpdatedBy *string   `gorm:"column:updated_by;type:uuid" json:"updated_by"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ChecklistItem) TableName() string { return "checklist_items" }
