package models

import (
	"time"
)

// Material is one line of a product's bill of materials
type Material struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// Product represents a catalog item that orders reference
type Product struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	Code                    string     `gorm:"uniqueIndex;not null" json:"code"`
	Name                    string     `gorm:"not null" json:"name"`
	Description             string     `gorm:"type:text" json:"description"`
	Category                string     `json:"category"`
	Price                   float64    `gorm:"not null;default:0;check:price >= 0" json:"price"`
	EstimatedProductionTime float64    `gorm:"not null;default:1" json:"estimated_production_time"` // hours per unit
	Materials               []Material `gorm:"type:text;serializer:json" json:"materials"`
	Notes                   string     `gorm:"type:text" json:"notes"`
	ImageS3Key              *string    `json:"image_s3_key"`                 // nullable, S3 key for uploaded image
	ImageURL                *string    `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
