package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
	"github.com/PaulBabatuyi/roomBooking-api/internal/booking"
	"github.com/PaulBabatuyi/roomBooking-api/internal/config"
	"github.com/PaulBabatuyi/roomBooking-api/internal/data"
	"github.com/PaulBabatuyi/roomBooking-api/internal/db"
	"github.com/PaulBabatuyi/roomBooking-api/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	// One client for the whole process; stores borrow its collections.
	dbClient, err := db.New(ctx, cfg.MongoURI, db.Namespaces{
		RoomsDB:            cfg.RoomsDB,
		RoomsCollection:    cfg.RoomsCollection,
		UsersDB:            cfg.UsersDB,
		BookingsCollection: cfg.BookingsCollection,
	}, cfg.Transactions)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dbClient.Close(closeCtx)
	}()
	log.Printf("pinged deployment; connected to MongoDB (transactions=%t)", cfg.Transactions)

	if err := dbClient.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	rooms := data.NewRoomsStore(dbClient.RoomsCollection())
	bookings := data.NewBookingsStore(dbClient.BookingsCollection())
	svc := booking.NewService(rooms, bookings, dbClient)

	// With JWT_KEYS we sign with the active kid and still accept older kids,
	// so keys can rotate; otherwise a single JWT_SECRET is used.
	var jwtMgr *auth.JWTManager
	if len(cfg.JWTKeys) > 0 {
		jwtMgr = auth.NewJWTManagerFromKeys(cfg.JWTKeys, cfg.JWTActiveKid, cfg.TokenTTL)
	} else {
		jwtMgr = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	}

	// Small burst allows a couple of quick retries on /jwt.
	limiterStore := middleware.NewLimiterStore(cfg.RateLimitRPM, 3, time.Minute)
	defer limiterStore.Stop()

	srv := newServer(svc, jwtMgr, limiterStore, cfg.CookieTTL)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSCert != "" {
			log.Printf("server listening on https://localhost:%s", cfg.Port)
			err = httpServer.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			log.Printf("server listening on http://localhost:%s", cfg.Port)
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Printf("server stopped")
}
