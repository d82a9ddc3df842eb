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

type MedicineHandler struct {
	DB *gorm.DB
}

func NewMedicineHandler(db *gorm.DB) *MedicineHandler { return &MedicineHandler{DB: db} }

func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	var medicines []models.Medicine
	if err := h.DB.Order("id").Find(&medicines).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_medicines", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, medicines)
}

func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var medicine models.Medicine
	if err := h.DB.First(&medicine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_medicine", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, medicine)
}

func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var medicine models.Medicine
	if !decodeJSON(w, r, &medicine) {
		return
	}
	medicine.ID = 0
	medicine.Version = 1
	medicine.Price = services.Round2(medicine.Price)
	if err := h.DB.Create(&medicine).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_medicine", nil)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/medicines/%d", medicine.ID), medicine)
}

func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var medicine models.Medicine
	if !decodeJSON(w, r, &medicine) {
		return
	}
	if medicine.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
		return
	}
	versionedUpdate(w, h.DB, &models.Medicine{}, id, medicine.Version, map[string]any{
		"name":           medicine.Name,
		"description":    medicine.Description,
		"manufacturer":   medicine.Manufacturer,
		"price":          services.Round2(medicine.Price),
		"stock_quantity": medicine.StockQuantity,
		"unit":           medicine.Unit,
		"expiry_date":    medicine.ExpiryDate,
	})
}

func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var medicine models.Medicine
	if err := h.DB.First(&medicine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_medicine", nil)
		return
	}
	if err := h.DB.Delete(&medicine).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_medicine", nil)
		return
	}
	httpx.NoContent(w)
}
