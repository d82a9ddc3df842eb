package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/metrics"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/validation"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrIDMismatch = errors.New("path and body ids disagree")
	ErrConflict   = errors.New("record was modified concurrently")
)

// ValidationError carries per-field violations from strict billing mode.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

// Round2 normalizes a monetary value to 2 decimal places.
func Round2(x float64) float64 { return math.Round(x*100) / 100 }

// DeriveInvoiceStatus is the single status derivation used on every invoice
// write path. Cancelled is an explicit caller decision and sticks; a settled
// balance means Paid; any partial payment means PartiallyPaid; otherwise the
// caller-set value is preserved, defaulting to Pending.
func DeriveInvoiceStatus(totalAmount, paidAmount float64, current string) string {
	if current == models.InvoiceStatusCancelled {
		return models.InvoiceStatusCancelled
	}
	balance := Round2(totalAmount - paidAmount)
	switch {
	case balance <= 0:
		return models.InvoiceStatusPaid
	case paidAmount > 0:
		return models.InvoiceStatusPartiallyPaid
	case current == "":
		return models.InvoiceStatusPending
	default:
		return current
	}
}

// BillingService owns the invoice lifecycle: number assignment, balance and
// status derivation, and the transactional payment path.
type BillingService struct {
	DB *gorm.DB
	// Strict rejects negative amounts and overpayment instead of passing
	// them through to the store.
	Strict bool
}

func NewBillingService(db *gorm.DB, strict bool) *BillingService {
	return &BillingService{DB: db, Strict: strict}
}

// nextInvoiceNumber bumps the per-day counter and formats the number. Must
// run inside the same transaction as the invoice insert: the counter UPDATE
// locks the row, so two concurrent creates cannot read the same value.
func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.UTC().Format("20060102")
	res := tx.Model(&models.InvoiceSequence{}).
		Where("day = ?", day).
		Update("counter", gorm.Expr("counter + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&models.InvoiceSequence{Day: day, Counter: 1}).Error; err != nil {
			// lost the insert race; the row exists now, bump it instead
			res = tx.Model(&models.InvoiceSequence{}).
				Where("day = ?", day).
				Update("counter", gorm.Expr("counter + 1"))
			if res.Error != nil {
				return "", res.Error
			}
		}
	}
	var seq models.InvoiceSequence
	if err := tx.First(&seq, "day = ?", day).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", day, seq.Counter), nil
}

// CreateInvoice assigns the invoice number and balance server-side; caller
// supplied values for both are discarded. Nested items are persisted with
// the invoice.
func (s *BillingService) CreateInvoice(inv *models.Invoice) error {
	if s.Strict {
		v := validation.Violations{}
		validation.NonNegativeFloat("totalAmount", inv.TotalAmount, v)
		validation.NonNegativeFloat("paidAmount", inv.PaidAmount, v)
		validation.MaxFloat("paidAmount", inv.PaidAmount, inv.TotalAmount, v)
		if !v.Empty() {
			return &ValidationError{Violations: v}
		}
	}

	now := time.Now().UTC()
	inv.ID = 0
	inv.TotalAmount = Round2(inv.TotalAmount)
	inv.PaidAmount = Round2(inv.PaidAmount)
	inv.BalanceAmount = Round2(inv.TotalAmount - inv.PaidAmount)
	inv.Status = DeriveInvoiceStatus(inv.TotalAmount, inv.PaidAmount, inv.Status)
	inv.Version = 1
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = now
	}
	for i := range inv.Items {
		inv.Items[i].ID = 0
		inv.Items[i].UnitPrice = Round2(inv.Items[i].UnitPrice)
		inv.Items[i].TotalPrice = Round2(inv.Items[i].TotalPrice)
	}
	inv.Payments = nil
	inv.Patient = nil

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextInvoiceNumber(tx, now)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		return tx.Create(inv).Error
	})
	if err != nil {
		return err
	}
	metrics.InvoicesCreated.Inc()
	return nil
}

// UpdateInvoice overwrites the caller-editable fields, recomputing balance
// and status from the submitted amounts. The invoice number is assigned once
// at creation and never touched here. The write is guarded by the version
// token: a stale token on an existing record reports a conflict.
func (s *BillingService) UpdateInvoice(id uint, inv *models.Invoice) error {
	if inv.ID != id {
		return ErrIDMismatch
	}
	if s.Strict {
		v := validation.Violations{}
		validation.NonNegativeFloat("totalAmount", inv.TotalAmount, v)
		validation.NonNegativeFloat("paidAmount", inv.PaidAmount, v)
		validation.MaxFloat("paidAmount", inv.PaidAmount, inv.TotalAmount, v)
		if !v.Empty() {
			return &ValidationError{Violations: v}
		}
	}

	total := Round2(inv.TotalAmount)
	paid := Round2(inv.PaidAmount)
	updates := map[string]any{
		"patient_id":     inv.PatientID,
		"invoice_date":   inv.InvoiceDate,
		"total_amount":   total,
		"paid_amount":    paid,
		"balance_amount": Round2(total - paid),
		"status":         DeriveInvoiceStatus(total, paid, inv.Status),
		"payment_method": inv.PaymentMethod,
		"version":        inv.Version + 1,
	}
	res := s.DB.Model(&models.Invoice{}).
		Where("id = ? AND version = ?", id, inv.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.DB.Model(&models.Invoice{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// AddPayment records a payment and settles it against the invoice in one
// transaction: either both the payment row and the updated balance/status
// are committed, or neither is. The invoice write is guarded by the version
// token read at the start of the transaction, so a concurrent edit or
// payment rolls the whole transaction back as a conflict.
func (s *BillingService) AddPayment(invoiceID uint, p *models.Payment) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		amount := Round2(p.Amount)
		if s.Strict {
			v := validation.Violations{}
			validation.PositiveFloat("amount", amount, v)
			validation.MaxFloat("amount", amount, Round2(inv.TotalAmount-inv.PaidAmount), v)
			if !v.Empty() {
				return &ValidationError{Violations: v}
			}
		}

		p.ID = 0
		p.InvoiceID = invoiceID
		p.Amount = amount
		if p.PaymentDate.IsZero() {
			p.PaymentDate = time.Now().UTC()
		}
		if p.TransactionID == "" {
			p.TransactionID = uuid.NewString()
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		paid := Round2(inv.PaidAmount + amount)
		balance := Round2(inv.TotalAmount - paid)
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND version = ?", inv.ID, inv.Version).
			Updates(map[string]any{
				"paid_amount":    paid,
				"balance_amount": balance,
				"status":         DeriveInvoiceStatus(inv.TotalAmount, paid, inv.Status),
				"version":        inv.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// invoice changed under us; roll the payment row back too
			return ErrConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.PaymentsRecorded.Inc()
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id") }

// GetInvoice returns the invoice with its items, payments, and patient.
// Child collections come back in insertion order.
func (s *BillingService) GetInvoice(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Preload("Patient").
		Preload("Items", orderByID).Preload("Payments", orderByID).
		First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *BillingService) ListInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.DB.Preload("Patient").
		Preload("Items", orderByID).Preload("Payments", orderByID).
		Order("id").Find(&invoices).Error
	return invoices, err
}

// DeleteInvoice removes the invoice together with its items and payments.
func (s *BillingService) DeleteInvoice(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}
