package models

import (
	"time"
)

// Order represents a customer order for one or more products
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	CustomerContact string      `gorm:"not null" json:"customer_contact"`
	OrderDate       time.Time   `gorm:"not null" json:"order_date"`
	DeliveryDate    time.Time   `gorm:"not null" json:"delivery_date"`
	Status          OrderStatus `gorm:"not null;default:'pending';index" json:"status"` // pending, in-progress, completed, cancelled
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount     float64     `gorm:"not null;default:0" json:"total_amount"` // snapshot, not recomputed on price changes
	Priority        Priority    `gorm:"not null;default:'medium'" json:"priority"`
	Notes           string      `gorm:"type:text" json:"notes"`
	CreatedBy       string      `json:"created_by"` // subject of the principal that created the order
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"` // unit price at the time the item was priced
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times the snapshotted unit price
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
