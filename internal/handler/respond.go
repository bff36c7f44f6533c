package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/evyataryagoni/geoconsole/internal/service"
	"github.com/evyataryagoni/geoconsole/internal/upstream"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Headers are already sent, an encoding error cannot be reported anymore
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with consistent formatting
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

// statusFor maps a service error to an HTTP status and a client-safe message
//
//   - coordinate validation errors → 400 with the message meant for the user
//   - other validation errors → 400 with the full error text
//   - nothing to export → 409
//   - geo service failures → 502 with the service's message
//   - anything else → 500 with a generic message
func statusFor(err error) (int, string) {
	var netErr *upstream.NetworkError
	var geoErr *geo.ValidationError
	switch {
	case errors.As(err, &geoErr):
		return http.StatusBadRequest, geoErr.Message
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNothingToExport):
		return http.StatusConflict, err.Error()
	case errors.As(err, &netErr):
		if netErr.Message != "" {
			return http.StatusBadGateway, "Geo service error: " + netErr.Message
		}
		if netErr.StatusCode != 0 {
			return http.StatusBadGateway, "Geo service error: " + http.StatusText(netErr.StatusCode)
		}
		return http.StatusBadGateway, "Geo service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// decodeJSON reads a JSON body into dst
// An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
