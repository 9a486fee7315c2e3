package models

import (
	"fmt"
	"time"
)

// Activity is one unit of production work generated from an order item
type Activity struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ActivityCode     string         `gorm:"uniqueIndex;not null" json:"activity_code"`
	OrderID          uint           `gorm:"not null;index" json:"order_id"`
	Order            *Order         `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	ProductID        uint           `gorm:"not null;index" json:"product_id"`
	Product          *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Description      string         `gorm:"not null" json:"description"`
	AssignedToID     *uint          `gorm:"index" json:"assigned_to_id"` // nullable, operator doing the work
	AssignedTo       *Operator      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Status           ActivityStatus `gorm:"not null;default:'pending';index" json:"status"` // pending, in-progress, paused, completed
	PlannedStartDate *time.Time     `json:"planned_start_date"`
	PlannedEndDate   *time.Time     `json:"planned_end_date"`
	ActualStartDate  *time.Time     `json:"actual_start_date"`
	ActualEndDate    *time.Time     `json:"actual_end_date"`
	EstimatedHours   float64        `gorm:"not null" json:"estimated_hours"`
	ActualHours      float64        `gorm:"not null;default:0" json:"actual_hours"`
	Priority         Priority       `gorm:"not null;default:'medium'" json:"priority"`
	Notes            string         `gorm:"type:text" json:"notes"`
	UpdatedBy        string         `json:"updated_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Activity model
func (Activity) TableName() string {
	return "activities"
}

// ActivityCode builds the unique code of the activity for a product line of an order
func ActivityCode(orderNumber, productCode string) string {
	return fmt.Sprintf("ACT-%s-%s", orderNumber, productCode)
}

// AllModels lists every model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&Product{},
		&Operator{},
		&Order{},
		&OrderItem{},
		&Activity{},
	}
}
