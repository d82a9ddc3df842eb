package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

type AppointmentHandler struct {
	DB *gorm.DB
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler { return &AppointmentHandler{DB: db} }

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var appointments []models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").Order("id").Find(&appointments).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_appointments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var appointment models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_appointment", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, appointment)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var appointment models.Appointment
	if !decodeJSON(w, r, &appointment) {
		return
	}
	appointment.ID = 0
	appointment.Version = 1
	appointment.Patient = nil
	appointment.Doctor = nil
	if appointment.Status == "" {
		appointment.Status = "Scheduled"
	}
	if err := h.DB.Create(&appointment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_appointment", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/appointments/%d", appointment.ID), appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var appointment models.Appointment
	if !decodeJSON(w, r, &appointment) {
		return
	}
	if appointment.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.Appointment{}, id, appointment.Version, map[string]any{
		"patient_id":       appointment.PatientID,
		"doctor_id":        appointment.DoctorID,
		"appointment_date": appointment.AppointmentDate,
		"status":           appointment.Status,
		"reason":           appointment.Reason,
		"notes":            appointment.Notes,
	})
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var appointment models.Appointment
	if err := h.DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_appointment", nil)
		return
	}
	if err := h.DB.Delete(&appointment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_appointment", nil)
		return
	}
	httpx.NoContent(w)
}
