package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/services"
)

type LabTestHandler struct {
	DB *gorm.DB
}

func NewLabTestHandler(db *gorm.DB) *LabTestHandler { return &LabTestHandler{DB: db} }

func (h *LabTestHandler) List(w http.ResponseWriter, r *http.Request) {
	var tests []models.LabTest
	if err := h.DB.Preload("Patient").Order("id").Find(&tests).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_labtests", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tests)
}

func (h *LabTestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var test models.LabTest
	if err := h.DB.Preload("Patient").First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_labtest", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, test)
}

func (h *LabTestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var test models.LabTest
	if !decodeJSON(w, r, &test) {
		return
	}
	test.ID = 0
	test.Version = 1
	test.Patient = nil
	test.Cost = services.Round2(test.Cost)
	if test.Status == "" {
		test.Status = "Pending"
	}
	if err := h.DB.Create(&test).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_labtest", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/labtests/%d", test.ID), test)
}

func (h *LabTestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var test models.LabTest
	if !decodeJSON(w, r, &test) {
		return
	}
	if test.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.LabTest{}, id, test.Version, map[string]any{
		"patient_id": test.PatientID,
		"test_name":  test.TestName,
		"test_type":  test.TestType,
		"test_date":  test.TestDate,
		"status":     test.Status,
		"result":     test.Result,
		"notes":      test.Notes,
		"cost":       services.Round2(test.Cost),
	})
}

func (h *LabTestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var test models.LabTest
	if err := h.DB.First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_labtest", nil)
		return
	}
	if err := h.DB.Delete(&test).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_labtest", nil)
		return
	}
	httpx.NoContent(w)
}
