package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/imgserve/internal/models"
)

// Write переводит доменную ошибку в HTTP-статус с коротким текстом.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	http.Error(w, http.StatusText(status), status)
}

// Status возвращает HTTP-статус для ошибки.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrBadPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
