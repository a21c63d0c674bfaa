// Package data provides DB models and stores.
package data

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// RoomsStore performs room DB operations.
type RoomsStore struct {
	// coll is the rooms collection; set via NewRoomsStore
	coll *mongo.Collection
}

// NewRoomsStore returns a RoomsStore using the provided collection.
func NewRoomsStore(coll *mongo.Collection) *RoomsStore {
	return &RoomsStore{coll: coll}
}

// ListAvailable returns every room whose availability is "available", in store order.
func (r *RoomsStore) ListAvailable(ctx context.Context) ([]Room, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"Availability": Available})
	if err != nil {
		return nil, fmt.Errorf("find available rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return rooms, nil
}

// GetByTitle returns the first room with the given title.
func (r *RoomsStore) GetByTitle(ctx context.Context, title string) (*Room, error) {
	var room Room
	err := r.coll.FindOne(ctx, bson.M{"RoomTitle": title}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find room %q: %w", title, err)
	}
	return &room, nil
}

// Reserve flips a room from available to unavailable. The filter includes the
// current availability, so of two concurrent reservations only one matches.
func (r *RoomsStore) Reserve(ctx context.Context, title string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"RoomTitle": title, "Availability": Available},
		bson.M{"$set": bson.M{"Availability": Unavailable}},
	)
	if err != nil {
		return fmt.Errorf("reserve room %q: %w", title, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the room does not exist or it is already taken.
	n, err := r.coll.CountDocuments(ctx, bson.M{"RoomTitle": title})
	if err != nil {
		return fmt.Errorf("count room %q: %w", title, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrRoomUnavailable
}

// Release sets a room back to available.
func (r *RoomsStore) Release(ctx context.Context, title string) error {
	_, err := r.setAvailability(ctx, title, Available)
	return err
}

// MarkUnavailable sets a room to unavailable regardless of its current state.
func (r *RoomsStore) MarkUnavailable(ctx context.Context, title string) (UpdateCounts, error) {
	return r.setAvailability(ctx, title, Unavailable)
}

func (r *RoomsStore) setAvailability(ctx context.Context, title string, a Availability) (UpdateCounts, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"RoomTitle": title},
		bson.M{"$set": bson.M{"Availability": a}},
	)
	if err != nil {
		return UpdateCounts{}, fmt.Errorf("set room %q %s: %w", title, a, err)
	}
	counts := UpdateCounts{Matched: res.MatchedCount, Modified: res.ModifiedCount}
	if res.MatchedCount == 0 {
		return counts, ErrNotFound
	}
	return counts, nil
}

// AppendReview pushes a review onto the room's review list.
func (r *RoomsStore) AppendReview(ctx context.Context, title string, review Review) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"RoomTitle": title},
		bson.M{"$push": bson.M{"Reviews": review}},
	)
	if err != nil {
		return fmt.Errorf("append review to %q: %w", title, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts a room, or refreshes the descriptive fields of an existing one.
// Availability and reviews are only written on insert so reseeding never frees a
// booked room or drops reviews. It reports whether a new document was inserted.
func (r *RoomsStore) Upsert(ctx context.Context, room Room) (bool, error) {
	availability := room.Availability
	if availability == "" {
		availability = Available
	}

	update := bson.M{
		"$set": bson.M{
			"Description":   room.Description,
			"PricePerNight": room.PricePerNight,
			"RoomSize":      room.RoomSize,
			"Images":        room.Images,
		},
		"$setOnInsert": bson.M{
			"Availability": availability,
			"Reviews":      []Review{},
		},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"RoomTitle": room.RoomTitle}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert room %q: %w", room.RoomTitle, err)
	}
	return res.UpsertedCount > 0, nil
}
