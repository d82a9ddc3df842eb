package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

type PrescriptionHandler struct {
	DB *gorm.DB
}

func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db}
}

func preloadItems(db *gorm.DB) *gorm.DB { return db.Order("id") }

func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	var prescriptions []models.Prescription
	err := h.DB.Preload("Patient").Preload("Doctor").
		Preload("Items", preloadItems).Preload("Items.Medicine").
		Order("id").Find(&prescriptions).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_prescriptions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, prescriptions)
}

func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var prescription models.Prescription
	err := h.DB.Preload("Patient").Preload("Doctor").
		Preload("Items", preloadItems).Preload("Items.Medicine").
		First(&prescription, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_prescription", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, prescription)
}

func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var prescription models.Prescription
	if !decodeJSON(w, r, &prescription) {
		return
	}
	prescription.ID = 0
	prescription.Version = 1
	prescription.Patient = nil
	prescription.Doctor = nil
	if prescription.Status == "" {
		prescription.Status = "Active"
	}
	for i := range prescription.Items {
		prescription.Items[i].ID = 0
		prescription.Items[i].Medicine = nil
	}
	if err := h.DB.Create(&prescription).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_prescription", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/prescriptions/%d", prescription.ID), prescription)
}

func (h *PrescriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var prescription models.Prescription
	if !decodeJSON(w, r, &prescription) {
		return
	}
	if prescription.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.Prescription{}, id, prescription.Version, map[string]any{
		"patient_id":        prescription.PatientID,
		"doctor_id":         prescription.DoctorID,
		"prescription_date": prescription.PrescriptionDate,
		"diagnosis":         prescription.Diagnosis,
		"status":            prescription.Status,
	})
}

// Delete removes the prescription and its items in one transaction.
func (h *PrescriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var prescription models.Prescription
		if err := tx.First(&prescription, id).Error; err != nil {
			return err
		}
		if err := tx.Where("prescription_id = ?", id).Delete(&models.PrescriptionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&prescription).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_prescription", nil)
		return
	}
	httpx.NoContent(w)
}
