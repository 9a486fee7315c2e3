package models

import (
	"time"
)

// Operator represents a worker that production activities can be assigned to
type Operator struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"not null" json:"name"`
	Role          string    `gorm:"not null" json:"role"`
	Skills        []string  `gorm:"type:text;serializer:json" json:"skills"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Operator model
func (Operator) TableName() string {
	return "operators"
}
