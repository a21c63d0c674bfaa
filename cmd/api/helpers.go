package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
	"github.com/PaulBabatuyi/roomBooking-api/internal/booking"
	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

var errEmptyBody = errors.New("request body is required")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// writeServiceError maps service, store and auth errors to a status code.
// Anything unrecognised is a store failure: logged, and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, booking.ErrMissingUserIdentity),
		errors.Is(err, booking.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, booking.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, data.ErrNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, data.ErrNoMatch):
		writeError(w, http.StatusNotFound, "no matching booking")
	case errors.Is(err, data.ErrRoomUnavailable):
		writeError(w, http.StatusConflict, "room is unavailable")
	default:
		log.Printf("[%s] %s failed: %v", chimiddleware.GetReqID(r.Context()), op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
