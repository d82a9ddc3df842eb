package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

type PatientHandler struct {
	DB *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler { return &PatientHandler{DB: db} }

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	var patients []models.Patient
	if err := h.DB.Order("id").Find(&patients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_patients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patient models.Patient
	if err := h.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_patient", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patient models.Patient
	if !decodeJSON(w, r, &patient) {
		return
	}
	patient.ID = 0
	patient.Version = 1
	if err := h.DB.Create(&patient).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_patient", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/patients/%d", patient.ID), patient)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patient models.Patient
	if !decodeJSON(w, r, &patient) {
		return
	}
	if patient.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.Patient{}, id, patient.Version, map[string]any{
		"first_name":    patient.FirstName,
		"last_name":     patient.LastName,
		"date_of_birth": patient.DateOfBirth,
		"gender":        patient.Gender,
		"phone_number":  patient.PhoneNumber,
		"email":         patient.Email,
		"address":       patient.Address,
	})
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patient models.Patient
	if err := h.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_patient", nil)
		return
	}
	if err := h.DB.Delete(&patient).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_patient", nil)
		return
	}
	httpx.NoContent(w)
}
