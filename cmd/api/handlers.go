package main

import (
	"net/http"
	"net/url"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
	"github.com/PaulBabatuyi/roomBooking-api/internal/booking"
	"github.com/PaulBabatuyi/roomBooking-api/internal/normalize"
	"github.com/go-chi/chi/v5"
)

// Home handles GET / as a liveness check.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Running server"))
}

// ListRooms handles GET /rooms
// Returns every room that is currently available.
func (s *Server) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.svc.ListAvailableRooms(r.Context())
	if err != nil {
		writeServiceError(w, r, "list rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetRoomDetails handles GET /room_details/{RoomTitle}
func (s *Server) GetRoomDetails(w http.ResponseWriter, r *http.Request) {
	room, err := s.svc.GetRoom(r.Context(), roomTitleParam(r))
	if err != nil {
		writeServiceError(w, r, "get room", err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// MarkRoomUnavailable handles PUT /room_details/{RoomTitle}
func (s *Server) MarkRoomUnavailable(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.MarkRoomUnavailable(r.Context(), roomTitleParam(r))
	if err != nil {
		writeServiceError(w, r, "mark room unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateBooking handles POST /room_details?email=
// Books the room named in the body for the user and marks it unavailable.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := s.svc.CreateBooking(r.Context(), r.URL.Query().Get("email"), req)
	if err != nil {
		writeServiceError(w, r, "create booking", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// AddReview handles POST /room_review?title=
func (s *Server) AddReview(w http.ResponseWriter, r *http.Request) {
	var req booking.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.svc.AddReview(r.Context(), r.URL.Query().Get("title"), req); err != nil {
		writeServiceError(w, r, "add review", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"acknowledged": true})
}

// ListMyBookings handles GET /my_bookings?email=
// Requires the token cookie; the token's email must match ?email=.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, "list bookings", auth.ErrUnauthenticated)
		return
	}

	bookings, err := s.svc.ListBookings(r.Context(), claims.Email, r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, "list bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// UpdateBookingDates handles PUT /my_bookings/update_date?email=
func (s *Server) UpdateBookingDates(w http.ResponseWriter, r *http.Request) {
	var req booking.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.svc.UpdateBookingDates(r.Context(), r.URL.Query().Get("email"), req)
	if err != nil {
		writeServiceError(w, r, "update booking dates", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CancelBooking handles DELETE /my_bookings/delete?deleteBook=&email=&title=
// Deletes the booking and makes the room available again.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := s.svc.CancelBooking(r.Context(), q.Get("email"), q.Get("deleteBook"), q.Get("title")); err != nil {
		writeServiceError(w, r, "cancel booking", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}

// IssueToken handles POST /jwt?email=
// Signs a token for the email and sets it as the auth cookie.
func (s *Server) IssueToken(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.URL.Query().Get("email"))
	if email == "" {
		writeServiceError(w, r, "issue token", booking.ErrMissingUserIdentity)
		return
	}

	token, _, err := s.auth.GenerateToken(email)
	if err != nil {
		writeServiceError(w, r, "issue token", err)
		return
	}

	http.SetCookie(w, auth.NewTokenCookie(token, s.now(), s.cookieTTL))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /logout by clearing the auth cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearTokenCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// roomTitleParam returns the {RoomTitle} path segment, unescaped.
func roomTitleParam(r *http.Request) string {
	p := chi.URLParam(r, "RoomTitle")
	if v, err := url.PathUnescape(p); err == nil {
		return v
	}
	return p
}
