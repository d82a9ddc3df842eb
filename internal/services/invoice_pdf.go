package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

// RenderInvoicePDF produces a printable A4 invoice: header, patient block,
// line items, payment history, and the balance summary.
func RenderInvoicePDF(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Hospital Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s - %s", inv.InvoiceNumber, inv.InvoiceDate.Format("02-Jan-2006")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Patient", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	patientName := fmt.Sprintf("Patient #%d", inv.PatientID)
	if inv.Patient != nil {
		patientName = inv.Patient.FirstName + " " + inv.Patient.LastName
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", patientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", inv.Status), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		desc := item.Description
		if len(desc) > 45 {
			desc = desc[:42] + "..."
		}
		pdf.CellFormat(90, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.TotalPrice), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	if len(inv.Payments) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payments", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, p := range inv.Payments {
			pdf.CellFormat(63, 6, p.PaymentDate.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(63, 6, p.PaymentMethod, "1", 0, "C", false, 0, "")
			pdf.CellFormat(64, 6, fmt.Sprintf("%.2f", p.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total: %.2f", inv.TotalAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Paid: %.2f", inv.PaidAmount), "1", 0, "C", false, 0, "")
	if inv.BalanceAmount > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.CellFormat(64, 8, fmt.Sprintf("Balance: %.2f", inv.BalanceAmount), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
