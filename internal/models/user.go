package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User mirrors public.users; the id is the Supabase auth user UUID.
type User struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;type:text" json:"email"`
	CompanyID string    `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	Role      UserRole  `gorm:"column:role;type:text" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }
