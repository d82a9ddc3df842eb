package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/services"
)

// idVar extracts the {id} path variable.
func idVar(r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// decodeJSON decodes the request body into dst, answering 400 on malformed
// input. Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}

// writeServiceError maps billing service errors onto the REST error taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrIDMismatch):
		httpx.JSONError(w, http.StatusBadRequest, "id_mismatch", nil)
	case errors.Is(err, services.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, "conflict", nil)
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// versionedUpdate applies updates to the row guarded by the optimistic
// version token and reports the outcome on w: 204 on success, 404 when the
// record is gone, 409 when the token is stale.
func versionedUpdate(w http.ResponseWriter, db *gorm.DB, model any, id uint, version uint, updates map[string]any) {
	updates["version"] = version + 1
	res := db.Model(model).Where("id = ? AND version = ?", id, version).Updates(updates)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
			return
		}
		if count == 0 {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusConflict, "conflict", nil)
		return
	}
	httpx.NoContent(w)
}
