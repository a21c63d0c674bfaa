// Package booking implements the booking lifecycle: listing rooms, creating,
// updating and cancelling bookings, reviews and room availability.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	"github.com/PaulBabatuyi/roomBooking-api/internal/normalize"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrMissingUserIdentity is returned when the user's email is absent.
	ErrMissingUserIdentity = errors.New("user email is required")

	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the token's email differs from the requested one.
	ErrForbidden = errors.New("forbidden")
)

// RoomStore is the subset of data.RoomsStore the service uses.
type RoomStore interface {
	ListAvailable(ctx context.Context) ([]data.Room, error)
	GetByTitle(ctx context.Context, title string) (*data.Room, error)
	Reserve(ctx context.Context, title string) error
	Release(ctx context.Context, title string) error
	MarkUnavailable(ctx context.Context, title string) (data.UpdateCounts, error)
	AppendReview(ctx context.Context, title string, review data.Review) error
}

// BookingStore is the subset of data.BookingsStore the service uses.
type BookingStore interface {
	Insert(ctx context.Context, booking *data.Booking) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]data.Booking, error)
	UpdateDates(ctx context.Context, ownerEmail, title string, start, end time.Time, duration int) (data.UpdateCounts, error)
	DeleteOwned(ctx context.Context, id, ownerEmail, title string) (*data.Booking, error)
}

// Transactor runs a group of store calls, atomically when Transactional is true.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Transactional() bool
}

// Outcome distinguishes an update that changed a document from one that matched
// but left it as it was.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// UpdateResult is returned by the update-style operations.
type UpdateResult struct {
	data.UpdateCounts
	Outcome Outcome `json:"outcome"`
}

func resultOf(c data.UpdateCounts) UpdateResult {
	if c.Modified > 0 {
		return UpdateResult{UpdateCounts: c, Outcome: OutcomeUpdated}
	}
	return UpdateResult{UpdateCounts: c, Outcome: OutcomeUnchanged}
}

// Service holds the booking business rules.
type Service struct {
	rooms    RoomStore
	bookings BookingStore
	tx       Transactor
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewService returns a Service wired to the given stores.
func NewService(rooms RoomStore, bookings BookingStore, tx Transactor) *Service {
	return &Service{
		rooms:    rooms,
		bookings: bookings,
		tx:       tx,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ListAvailableRooms returns all rooms currently available, in store order.
func (s *Service) ListAvailableRooms(ctx context.Context) ([]data.Room, error) {
	return s.rooms.ListAvailable(ctx)
}

// GetRoom returns the room with the given title or data.ErrNotFound.
func (s *Service) GetRoom(ctx context.Context, title string) (*data.Room, error) {
	title = normalize.Title(title)
	if title == "" {
		return nil, fmt.Errorf("%w: room title is required", ErrInvalidInput)
	}
	return s.rooms.GetByTitle(ctx, title)
}

// CreateBooking reserves the room and records the booking for email. Both
// writes share one transaction; without transactions a failed insert releases
// the room again.
func (s *Service) CreateBooking(ctx context.Context, email string, req BookingRequest) (*data.Booking, error) {
	owner, err := s.userIdentity(email)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	title := normalize.Title(req.RoomTitle)
	start, end, nights, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &data.Booking{
		ID:         s.newID(),
		OwnerEmail: owner,
		RoomTitle:  title,
		StartDate:  start,
		EndDate:    end,
		Duration:   nights,
		CreatedAt:  s.now().UTC(),
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.rooms.Reserve(ctx, title); err != nil {
			return err
		}
		if err := s.bookings.Insert(ctx, booking); err != nil {
			if !s.tx.Transactional() {
				if relErr := s.rooms.Release(ctx, title); relErr != nil {
					log.Printf("booking insert failed and room %q could not be released: %v", title, relErr)
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookings returns the bookings of requestedEmail. tokenEmail is the
// authenticated user; the two must name the same address.
func (s *Service) ListBookings(ctx context.Context, tokenEmail, requestedEmail string) ([]data.Booking, error) {
	owner, err := s.userIdentity(requestedEmail)
	if err != nil {
		return nil, err
	}
	if !normalize.SameEmail(tokenEmail, owner) {
		return nil, ErrForbidden
	}
	return s.bookings.ListByOwner(ctx, owner)
}

// UpdateBookingDates changes the dates of the owner's booking for req.RoomTitle.
// It returns data.ErrNoMatch when the owner has no booking for that room.
func (s *Service) UpdateBookingDates(ctx context.Context, email string, req BookingRequest) (UpdateResult, error) {
	owner, err := s.userIdentity(email)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return UpdateResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	start, end, nights, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return UpdateResult{}, err
	}

	counts, err := s.bookings.UpdateDates(ctx, owner, normalize.Title(req.RoomTitle), start, end, nights)
	if err != nil {
		return UpdateResult{UpdateCounts: counts}, err
	}
	return resultOf(counts), nil
}

// CancelBooking deletes the owner's booking and frees its room. Of several
// concurrent cancels for one booking, one succeeds and the rest get data.ErrNoMatch
// without touching the room.
func (s *Service) CancelBooking(ctx context.Context, email, bookingID, title string) error {
	owner, err := s.userIdentity(email)
	if err != nil {
		return err
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return fmt.Errorf("%w: deleteBook is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(bookingID); err != nil {
		return fmt.Errorf("%w: deleteBook is not a booking id", ErrInvalidInput)
	}
	title = normalize.Title(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.bookings.DeleteOwned(ctx, bookingID, owner, title)
		if err != nil {
			return err
		}

		err = s.rooms.Release(ctx, deleted.RoomTitle)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, data.ErrNotFound):
			// The room is gone; the booking is still cancelled.
			log.Printf("cancelled booking %s references missing room %q", deleted.ID, deleted.RoomTitle)
			return nil
		default:
			if !s.tx.Transactional() {
				log.Printf("booking %s deleted but room %q not released: %v", deleted.ID, deleted.RoomTitle, err)
			}
			return err
		}
	})
}

// AddReview appends a review to the room's review list.
func (s *Service) AddReview(ctx context.Context, title string, req ReviewRequest) error {
	title = normalize.Title(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	return s.rooms.AppendReview(ctx, title, data.Review{
		ReviewerEmail: normalize.Email(req.ReviewerEmail),
		Rating:        req.Rating,
		Comment:       req.Comment,
		CreatedAt:     s.now().UTC(),
	})
}

// MarkRoomUnavailable sets the room unavailable. The reverse only happens
// through CancelBooking.
func (s *Service) MarkRoomUnavailable(ctx context.Context, title string) (UpdateResult, error) {
	title = normalize.Title(title)
	if title == "" {
		return UpdateResult{}, fmt.Errorf("%w: room title is required", ErrInvalidInput)
	}
	counts, err := s.rooms.MarkUnavailable(ctx, title)
	if err != nil {
		return UpdateResult{UpdateCounts: counts}, err
	}
	return resultOf(counts), nil
}

// userIdentity normalizes and checks the email that scopes a request.
func (s *Service) userIdentity(email string) (string, error) {
	email = normalize.Email(email)
	if email == "" {
		return "", ErrMissingUserIdentity
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", fmt.Errorf("%w: %q is not a valid email address", ErrInvalidInput, email)
	}
	return email, nil
}

// parseStay parses both dates and returns the number of nights between them.
func parseStay(startDate, endDate string) (time.Time, time.Time, int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: StartDate must be a date in YYYY-MM-DD form", ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: EndDate must be a date in YYYY-MM-DD form", ErrInvalidInput)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: EndDate must be after StartDate", ErrInvalidInput)
	}
	return start, end, int(end.Sub(start).Hours() / 24), nil
}
