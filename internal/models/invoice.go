package models

import "time"

// Invoice status values.
const (
	InvoiceStatusPending       = "Pending"
	InvoiceStatusPartiallyPaid = "PartiallyPaid"
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusCancelled     = "Cancelled"
)

// Invoice carries the only derived state in the system: InvoiceNumber is
// assigned once at creation, PaidAmount accumulates recorded payments, and
// BalanceAmount/Status are recomputed on every write path.
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PatientID     uint      `gorm:"not null;index" json:"patientId"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	TotalAmount   float64   `json:"totalAmount"`
	PaidAmount    float64   `json:"paidAmount"`
	BalanceAmount float64   `json:"balanceAmount"`
	Status        string    `gorm:"not null;default:'Pending'" json:"status"`
	PaymentMethod string    `json:"paymentMethod"` // Cash, Card, Insurance
	Version       uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Patient  *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// InvoiceItem line totals are caller-supplied and stored as-is; the server
// does not recompute quantity times unit price.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"not null;index" json:"invoiceId"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceID     uint      `gorm:"not null;index" json:"invoiceId"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// InvoiceSequence is the per-UTC-day counter behind invoice numbers. The row
// is bumped inside the same transaction as the invoice insert so concurrent
// creates cannot observe the same value.
type InvoiceSequence struct {
	Day     string `gorm:"primaryKey;size:8"` // yyyyMMdd
	Counter uint   `gorm:"not null"`
}
