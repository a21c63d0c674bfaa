package data

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned when no room has the requested title.
	ErrNotFound = errors.New("not found")

	// ErrNoMatch is returned when no booking matches the owner/title/id filter.
	ErrNoMatch = errors.New("no matching booking")

	// ErrRoomUnavailable is returned when booking a room that is already taken.
	ErrRoomUnavailable = errors.New("room is unavailable")
)

// Availability is the booking status of a room.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Room maps to the rooms collection. Field names follow the seeded documents.
type Room struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	RoomTitle     string        `bson:"RoomTitle" json:"RoomTitle"`
	Availability  Availability  `bson:"Availability" json:"Availability"`
	Description   string        `bson:"Description,omitempty" json:"Description,omitempty"`
	PricePerNight float64       `bson:"PricePerNight,omitempty" json:"PricePerNight,omitempty"`
	RoomSize      string        `bson:"RoomSize,omitempty" json:"RoomSize,omitempty"`
	Images        []string      `bson:"Images,omitempty" json:"Images,omitempty"`
	Reviews       []Review      `bson:"Reviews" json:"Reviews"`
}

// Review is appended to Room.Reviews and never edited.
type Review struct {
	ReviewerEmail string    `bson:"reviewerEmail,omitempty" json:"reviewerEmail,omitempty"`
	Rating        int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Comment       string    `bson:"comment" json:"comment"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// Booking maps to the bookings collection; ownerEmail is the ownership boundary.
type Booking struct {
	ID         string    `bson:"_id" json:"_id"`
	OwnerEmail string    `bson:"ownerEmail" json:"ownerEmail"`
	RoomTitle  string    `bson:"RoomTitle" json:"RoomTitle"`
	StartDate  time.Time `bson:"StartDate" json:"StartDate"`
	EndDate    time.Time `bson:"EndDate" json:"EndDate"`
	Duration   int       `bson:"Duration" json:"Duration"` // nights, EndDate-StartDate
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// UpdateCounts mirrors the matched/modified counters of an update.
type UpdateCounts struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
}
