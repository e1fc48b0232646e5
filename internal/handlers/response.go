package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/foodkart/catalog-service/internal/apperr"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// WriteServiceError maps a service error to its HTTP status. Unclassified
// errors and storage-level failures return a generic 500 body; details are
// only logged.
func WriteServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.Status()
		if status < http.StatusInternalServerError {
			WriteError(w, status, ae.Message, logger)
			return
		}
	}

	logger.Error("request failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
}

// validationMessage surfaces the first validator violation
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return err.Error()
}
