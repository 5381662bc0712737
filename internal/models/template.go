package models

import "time"

// Template is a downloadable document template offered on the templates page.
type Template struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	Category string `gorm:"column:category;type:text;index" json:"category"`

	// object key in the template-files bucket
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"`

	IsPublic      bool `gorm:"column:is_public" json:"is_public"`
	DownloadCount int  `gorm:"column:download_count;type:integer" json:"download_count"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Template) TableName() string { return "templates" }
