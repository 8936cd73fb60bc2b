package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error maps business errors to HTTP status codes. Anything outside the known
// categories is a persistence failure and reported as a 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrCapacityExhausted), errors.Is(err, models.ErrCapacityUndefined):
		status = http.StatusConflict
	}
	JSON(w, status, map[string]string{"error": err.Error()})
}
