package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open db")
	err = db.AutoMigrate(
		&models.Patient{}, &models.Invoice{}, &models.InvoiceItem{},
		&models.Payment{}, &models.InvoiceSequence{},
	)
	require.NoError(t, err, "migrate")
	return db
}

func seedPatient(t *testing.T, db *gorm.DB) models.Patient {
	t.Helper()
	p := models.Patient{FirstName: "Jane", LastName: "Doe", Email: "jane@test"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 10.0, Round2(10.0))
	assert.Equal(t, -2.5, Round2(-2.499999999))
	assert.Equal(t, 0.1, Round2(0.1+0.2-0.2))
}

func TestDeriveInvoiceStatus(t *testing.T) {
	cases := []struct {
		name    string
		total   float64
		paid    float64
		current string
		want    string
	}{
		{"fresh pending", 500, 0, "Pending", models.InvoiceStatusPending},
		{"empty defaults to pending", 500, 0, "", models.InvoiceStatusPending},
		{"partial", 500, 200, "Pending", models.InvoiceStatusPartiallyPaid},
		{"settled", 500, 500, "PartiallyPaid", models.InvoiceStatusPaid},
		{"overpaid", 500, 600, "Pending", models.InvoiceStatusPaid},
		{"cancelled sticks", 500, 200, "Cancelled", models.InvoiceStatusCancelled},
		{"caller value preserved", 500, 0, "Cancelled", models.InvoiceStatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveInvoiceStatus(tc.total, tc.paid, tc.current))
		})
	}
}

func TestCreateInvoiceAssignsNumberAndBalance(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	day := time.Now().UTC().Format("20060102")
	inv := models.Invoice{
		PatientID:     patient.ID,
		InvoiceNumber: "SPOOFED",
		TotalAmount:   500,
		PaidAmount:    0,
		BalanceAmount: -999, // must not be trusted
		Status:        "Pending",
		Items: []models.InvoiceItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
		},
	}
	require.NoError(t, svc.CreateInvoice(&inv))

	assert.Equal(t, fmt.Sprintf("INV-%s-0001", day), inv.InvoiceNumber)
	assert.Equal(t, 500.0, inv.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
	assert.NotZero(t, inv.ID)

	var items []models.InvoiceItem
	require.NoError(t, db.Where("invoice_id = ?", inv.ID).Find(&items).Error)
	assert.Len(t, items, 1)

	second := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&second))
	assert.Equal(t, fmt.Sprintf("INV-%s-0002", day), second.InvoiceNumber)

	third := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&third))
	assert.Equal(t, fmt.Sprintf("INV-%s-0003", day), third.InvoiceNumber)
}

func TestPaymentLifecycle(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 500, Status: "Pending"}
	require.NoError(t, svc.CreateInvoice(&inv))
	assert.Equal(t, 500.0, inv.BalanceAmount)

	p1 := models.Payment{Amount: 200, PaymentMethod: "Cash"}
	require.NoError(t, svc.AddPayment(inv.ID, &p1))
	assert.Equal(t, inv.ID, p1.InvoiceID)
	assert.NotEmpty(t, p1.TransactionID, "transaction id defaulted")
	assert.False(t, p1.PaymentDate.IsZero())

	got, err := svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.PaidAmount)
	assert.Equal(t, 300.0, got.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, got.Status)

	p2 := models.Payment{Amount: 300, PaymentMethod: "Card", TransactionID: "TX-1"}
	require.NoError(t, svc.AddPayment(inv.ID, &p2))
	assert.Equal(t, "TX-1", p2.TransactionID, "caller transaction id kept")

	got, err = svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.PaidAmount)
	assert.Equal(t, 0.0, got.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	require.Len(t, got.Payments, 2)
	assert.Equal(t, 200.0, got.Payments[0].Amount, "payments in insertion order")
	assert.Equal(t, 300.0, got.Payments[1].Amount)
}

func TestAddPaymentMissingInvoice(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)

	p := models.Payment{Amount: 50}
	err := svc.AddPayment(9999, &p)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count, "no payment row written")
}

func TestAddPaymentConflictRollsBack(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 500}
	require.NoError(t, svc.CreateInvoice(&inv))

	// bump the invoice version out from under the payment path right after
	// the payment row is inserted
	err := db.Callback().Create().After("gorm:create").Register("bump_invoice_version", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Payment); !ok {
			return
		}
		bump := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE invoices SET version = version + 1 WHERE id = ?", inv.ID)
		require.NoError(t, bump.Error)
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove("bump_invoice_version") })

	assert.ErrorIs(t, svc.AddPayment(inv.ID, &models.Payment{Amount: 200}), ErrConflict)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments, "payment row rolled back with the conflict")

	got, err := svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPending, got.Status)
}

func TestUpdateInvoiceIDMismatch(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&inv))

	edit := inv
	edit.ID = inv.ID + 1
	edit.TotalAmount = 999
	assert.ErrorIs(t, svc.UpdateInvoice(inv.ID, &edit), ErrIDMismatch)

	got, err := svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.TotalAmount, "no mutation on rejected update")
}

func TestUpdateInvoiceRecomputesBalanceAndStatus(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 500, Status: "Pending"}
	require.NoError(t, svc.CreateInvoice(&inv))
	number := inv.InvoiceNumber

	edit := inv
	edit.TotalAmount = 500
	edit.PaidAmount = 500
	require.NoError(t, svc.UpdateInvoice(inv.ID, &edit))

	got, err := svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status, "status recomputed on direct edit")
	assert.Equal(t, number, got.InvoiceNumber, "invoice number never recomputed")
	assert.Equal(t, inv.Version+1, got.Version)
}

func TestUpdateInvoiceConflictAndNotFound(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&inv))

	stale := inv
	stale.Version = inv.Version + 7
	assert.ErrorIs(t, svc.UpdateInvoice(inv.ID, &stale), ErrConflict)

	missing := models.Invoice{ID: 4242, Version: 1}
	assert.ErrorIs(t, svc.UpdateInvoice(4242, &missing), ErrNotFound)
}

func TestDeleteInvoiceCascades(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{
		PatientID:   patient.ID,
		TotalAmount: 300,
		Items: []models.InvoiceItem{
			{Description: "X-Ray", Quantity: 1, UnitPrice: 300, TotalPrice: 300},
		},
	}
	require.NoError(t, svc.CreateInvoice(&inv))
	require.NoError(t, svc.AddPayment(inv.ID, &models.Payment{Amount: 100}))

	require.NoError(t, svc.DeleteInvoice(inv.ID))

	var items, payments int64
	require.NoError(t, db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&items).Error)
	require.NoError(t, db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).Count(&payments).Error)
	assert.Zero(t, items, "no orphaned items")
	assert.Zero(t, payments, "no orphaned payments")

	_, err := svc.GetInvoice(inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteInvoice(inv.ID), ErrNotFound)
}

func TestStrictBillingValidation(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, true)
	patient := seedPatient(t, db)

	var verr *ValidationError

	bad := models.Invoice{PatientID: patient.ID, TotalAmount: -10}
	err := svc.CreateInvoice(&bad)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "totalAmount")

	over := models.Invoice{PatientID: patient.ID, TotalAmount: 100, PaidAmount: 150}
	err = svc.CreateInvoice(&over)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "paidAmount")

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&inv))

	err = svc.AddPayment(inv.ID, &models.Payment{Amount: 150})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "amount")

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count, "rejected payment not persisted")
}

func TestPermissiveModeAllowsOverpayment(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := NewBillingService(db, false)
	patient := seedPatient(t, db)

	inv := models.Invoice{PatientID: patient.ID, TotalAmount: 100}
	require.NoError(t, svc.CreateInvoice(&inv))
	require.NoError(t, svc.AddPayment(inv.ID, &models.Payment{Amount: 150}))

	got, err := svc.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.PaidAmount)
	assert.Equal(t, -50.0, got.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
}
