package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

type DoctorHandler struct {
	DB *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler { return &DoctorHandler{DB: db} }

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	var doctors []models.Doctor
	if err := h.DB.Order("id").Find(&doctors).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_doctors", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var doctor models.Doctor
	if err := h.DB.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_doctor", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doctor models.Doctor
	if !decodeJSON(w, r, &doctor) {
		return
	}
	doctor.ID = 0
	doctor.Version = 1
	if err := h.DB.Create(&doctor).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_doctor", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/doctors/%d", doctor.ID), doctor)
}

func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var doctor models.Doctor
	if !decodeJSON(w, r, &doctor) {
		return
	}
	if doctor.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.Doctor{}, id, doctor.Version, map[string]any{
		"first_name":     doctor.FirstName,
		"last_name":      doctor.LastName,
		"specialization": doctor.Specialization,
		"phone_number":   doctor.PhoneNumber,
		"email":          doctor.Email,
		"license_number": doctor.LicenseNumber,
	})
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var doctor models.Doctor
	if err := h.DB.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_doctor", nil)
		return
	}
	if err := h.DB.Delete(&doctor).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_doctor", nil)
		return
	}
	httpx.NoContent(w)
}
