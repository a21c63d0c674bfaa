package main

import (
	"context"
	"net/http"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
	"github.com/PaulBabatuyi/roomBooking-api/internal/booking"
	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	"github.com/PaulBabatuyi/roomBooking-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// bookingService is the part of booking.Service the handlers call.
type bookingService interface {
	ListAvailableRooms(ctx context.Context) ([]data.Room, error)
	GetRoom(ctx context.Context, title string) (*data.Room, error)
	CreateBooking(ctx context.Context, email string, req booking.BookingRequest) (*data.Booking, error)
	ListBookings(ctx context.Context, tokenEmail, requestedEmail string) ([]data.Booking, error)
	UpdateBookingDates(ctx context.Context, email string, req booking.BookingRequest) (booking.UpdateResult, error)
	CancelBooking(ctx context.Context, email, bookingID, title string) error
	AddReview(ctx context.Context, title string, req booking.ReviewRequest) error
	MarkRoomUnavailable(ctx context.Context, title string) (booking.UpdateResult, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	svc       bookingService
	auth      *auth.JWTManager
	limiter   *middleware.LimiterStore
	cookieTTL time.Duration
	now       func() time.Time
}

// newServer returns a ready-to-use Server wired with the booking service and auth manager.
func newServer(svc bookingService, authMgr *auth.JWTManager, limiter *middleware.LimiterStore, cookieTTL time.Duration) *Server {
	return &Server{svc: svc, auth: authMgr, limiter: limiter, cookieTTL: cookieTTL, now: time.Now}
}

// routes builds the chi router for the whole API.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger) // access log

	r.Get("/", s.Home)

	r.Get("/rooms", s.ListRooms)
	r.Get("/room_details/{RoomTitle}", s.GetRoomDetails)
	r.Put("/room_details/{RoomTitle}", s.MarkRoomUnavailable)
	r.Post("/room_details", s.CreateBooking)
	r.Post("/room_review", s.AddReview)

	r.With(requireToken(s.auth)).Get("/my_bookings", s.ListMyBookings)
	r.Put("/my_bookings/update_date", s.UpdateBookingDates)
	r.Delete("/my_bookings/delete", s.CancelBooking)

	r.With(middleware.RateLimit(s.limiter)).Post("/jwt", s.IssueToken)
	r.Post("/logout", s.Logout)

	return r
}
