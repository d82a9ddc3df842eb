package models

import "time"

type Medicine struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	Manufacturer  string    `json:"manufacturer"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Unit          string    `json:"unit"` // Tablets, Syrup, Injection, ...
	ExpiryDate    time.Time `json:"expiryDate"`
	Version       uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
