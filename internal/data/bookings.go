package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// BookingsStore performs booking DB operations. All users share one collection.
type BookingsStore struct {
	coll *mongo.Collection
}

// NewBookingsStore returns a BookingsStore using the given collection.
func NewBookingsStore(coll *mongo.Collection) *BookingsStore {
	return &BookingsStore{coll: coll}
}

// Insert stores a new booking. The caller assigns the ID.
func (b *BookingsStore) Insert(ctx context.Context, booking *Booking) error {
	if _, err := b.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ListByOwner returns all bookings owned by the given (normalized) email.
func (b *BookingsStore) ListByOwner(ctx context.Context, ownerEmail string) ([]Booking, error) {
	cursor, err := b.coll.Find(ctx, bson.M{"ownerEmail": ownerEmail})
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// UpdateDates overwrites the dates of the first booking the owner holds for the
// room title. With several such bookings only one, chosen by the store, changes.
func (b *BookingsStore) UpdateDates(ctx context.Context, ownerEmail, title string, start, end time.Time, duration int) (UpdateCounts, error) {
	res, err := b.coll.UpdateOne(ctx,
		bson.M{"ownerEmail": ownerEmail, "RoomTitle": title},
		bson.M{"$set": bson.M{
			"StartDate": start,
			"EndDate":   end,
			"Duration":  duration,
		}},
	)
	if err != nil {
		return UpdateCounts{}, fmt.Errorf("update booking dates: %w", err)
	}
	counts := UpdateCounts{Matched: res.MatchedCount, Modified: res.ModifiedCount}
	if res.MatchedCount == 0 {
		return counts, ErrNoMatch
	}
	return counts, nil
}

// DeleteOwned removes the booking with the given id, owner and room title and
// returns it. Only one of several concurrent callers gets the document back;
// the rest see ErrNoMatch.
func (b *BookingsStore) DeleteOwned(ctx context.Context, id, ownerEmail, title string) (*Booking, error) {
	var deleted Booking
	err := b.coll.FindOneAndDelete(ctx, bson.M{
		"_id":        id,
		"ownerEmail": ownerEmail,
		"RoomTitle":  title,
	}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("delete booking %s: %w", id, err)
	}
	return &deleted, nil
}
