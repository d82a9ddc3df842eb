package handlers

import (
	"fmt"
	"net/http"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/services"
)

// InvoiceHandler routes the invoice CRUD surface plus the payment and PDF
// endpoints through the billing service; it holds no store access of its own.
type InvoiceHandler struct {
	Svc *services.BillingService
}

func NewInvoiceHandler(svc *services.BillingService) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Svc.ListInvoices()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.GetInvoice(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if !decodeJSON(w, r, &inv) {
		return
	}
	if err := h.Svc.CreateInvoice(&inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/invoices/%d", inv.ID), inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var inv models.Invoice
	if !decodeJSON(w, r, &inv) {
		return
	}
	if err := h.Svc.UpdateInvoice(id, &inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.DeleteInvoice(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

// AddPayment records a payment against the invoice. The response carries the
// payment; the Location header points back at the invoice, which the caller
// re-fetches for the updated balance and status.
func (h *InvoiceHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var payment models.Payment
	if !decodeJSON(w, r, &payment) {
		return
	}
	if err := h.Svc.AddPayment(id, &payment); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/invoices/%d", id), payment)
}

func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.GetInvoice(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	body, err := services.RenderInvoicePDF(inv)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", inv.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
