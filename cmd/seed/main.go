// Command seed loads room documents from a YAML file into the rooms collection.
// Running it again refreshes descriptions and prices but leaves availability
// and reviews of existing rooms alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/config"
	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	"github.com/PaulBabatuyi/roomBooking-api/internal/db"
	"github.com/PaulBabatuyi/roomBooking-api/internal/normalize"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Rooms []seedRoom `yaml:"rooms"`
}

type seedRoom struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	PricePerNight float64  `yaml:"price_per_night"`
	Size          string   `yaml:"size"`
	Images        []string `yaml:"images"`
}

// loadSeed reads and parses the seed file at path.
func loadSeed(path string) ([]data.Room, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) ([]data.Room, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]bool, len(f.Rooms))
	rooms := make([]data.Room, 0, len(f.Rooms))
	for i, r := range f.Rooms {
		title := normalize.Title(r.Title)
		if title == "" {
			return nil, fmt.Errorf("room %d: title is required", i)
		}
		if seen[title] {
			return nil, fmt.Errorf("room %d: duplicate title %q", i, title)
		}
		if r.PricePerNight < 0 {
			return nil, fmt.Errorf("room %q: price_per_night must not be negative", title)
		}
		seen[title] = true
		rooms = append(rooms, data.Room{
			RoomTitle:     title,
			Description:   r.Description,
			PricePerNight: r.PricePerNight,
			RoomSize:      r.Size,
			Images:        r.Images,
		})
	}
	return rooms, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	path := flag.String("file", cfg.SeedFile, "YAML file with the rooms to load")
	flag.Parse()

	rooms, err := loadSeed(*path)
	if err != nil {
		log.Fatalf("load %s: %v", *path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbClient, err := db.New(ctx, cfg.MongoURI, db.Namespaces{
		RoomsDB:            cfg.RoomsDB,
		RoomsCollection:    cfg.RoomsCollection,
		UsersDB:            cfg.UsersDB,
		BookingsCollection: cfg.BookingsCollection,
	}, cfg.Transactions)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() { _ = dbClient.Close(context.Background()) }()

	if err := dbClient.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	store := data.NewRoomsStore(dbClient.RoomsCollection())
	var inserted int
	for _, room := range rooms {
		created, err := store.Upsert(ctx, room)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		if created {
			inserted++
		}
	}
	log.Printf("seeded %d rooms (%d new, %d refreshed)", len(rooms), inserted, len(rooms)-inserted)
}
