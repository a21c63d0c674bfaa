package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
	"github.com/PaulBabatuyi/roomBooking-api/internal/booking"
	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	"github.com/PaulBabatuyi/roomBooking-api/internal/db"
	"github.com/PaulBabatuyi/roomBooking-api/internal/middleware"
)

func TestBookAndCancelAgainstMongo(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	dbClient, err := db.New(ctx, uri, db.Namespaces{
		RoomsDB:            "RoomsDB_apitest",
		RoomsCollection:    "roomCollection",
		UsersDB:            "UserDatas_apitest",
		BookingsCollection: "bookings",
	}, false)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	defer func() {
		_ = dbClient.RoomsCollection().Drop(context.Background())
		_ = dbClient.BookingsCollection().Drop(context.Background())
		_ = dbClient.Close(context.Background())
	}()
	_ = dbClient.RoomsCollection().Drop(ctx)
	_ = dbClient.BookingsCollection().Drop(ctx)
	if err := dbClient.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}

	rooms := data.NewRoomsStore(dbClient.RoomsCollection())
	bookings := data.NewBookingsStore(dbClient.BookingsCollection())
	if _, err := rooms.Upsert(ctx, data.Room{RoomTitle: "Ocean View", PricePerNight: 120}); err != nil {
		t.Fatalf("seed room: %v", err)
	}

	limiter := middleware.NewLimiterStore(600, 100, time.Minute)
	defer limiter.Stop()
	srv := newServer(booking.NewService(rooms, bookings, dbClient),
		auth.NewJWTManager("test-secret", time.Hour), limiter, auth.DefaultCookieLifetime)

	// The token cookie is Secure, so the jar only sends it back over TLS.
	ts := httptest.NewTLSServer(srv.routes())
	defer ts.Close()
	client := ts.Client()
	jar, _ := cookiejar.New(nil)
	client.Jar = jar

	send := func(method, path string, body any) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req, err := http.NewRequest(method, ts.URL+path, &buf)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	if resp := send(http.MethodPost, "/jwt?email=guest@example.com", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /jwt: %d", resp.StatusCode)
	}

	stay := map[string]string{"RoomTitle": "Ocean View", "StartDate": "2026-12-01", "EndDate": "2026-12-05"}
	resp := send(http.MethodPost, "/room_details?email=guest@example.com", stay)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking: %d", resp.StatusCode)
	}
	var created data.Booking
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode booking: %v", err)
	}

	if resp := send(http.MethodPost, "/room_details?email=other@example.com", stay); resp.StatusCode != http.StatusConflict {
		t.Fatalf("double booking: want 409, got %d", resp.StatusCode)
	}

	resp = send(http.MethodGet, "/my_bookings?email=guest@example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my bookings: %d", resp.StatusCode)
	}
	var mine []data.Booking
	if err := json.NewDecoder(resp.Body).Decode(&mine); err != nil {
		t.Fatalf("decode my bookings: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != created.ID || mine[0].Duration != 4 {
		t.Fatalf("unexpected my bookings: %+v", mine)
	}

	if resp := send(http.MethodGet, "/my_bookings?email=other@example.com", nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("someone else's bookings: want 403, got %d", resp.StatusCode)
	}

	cancel := "/my_bookings/delete?deleteBook=" + created.ID + "&email=guest@example.com&title=Ocean%20View"
	if resp := send(http.MethodDelete, cancel, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: %d", resp.StatusCode)
	}
	if resp := send(http.MethodDelete, cancel, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second cancel: want 404, got %d", resp.StatusCode)
	}

	room, err := rooms.GetByTitle(ctx, "Ocean View")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if room.Availability != data.Available {
		t.Fatalf("room should be available after cancel, got %s", room.Availability)
	}

	if resp := send(http.MethodPost, "/logout", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	if resp := send(http.MethodGet, "/my_bookings?email=guest@example.com", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("after logout: want 401, got %d", resp.StatusCode)
	}
}
