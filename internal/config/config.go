// Package config reads runtime settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full set of settings used by the API server and the seeder.
type Config struct {
	Port string

	MongoURI           string
	RoomsDB            string
	RoomsCollection    string
	UsersDB            string
	BookingsCollection string
	Transactions       bool

	// Either JWTSecret or JWTKeys must be set. JWTKeys enables rotation.
	JWTSecret    string
	JWTKeys      map[string]string
	JWTActiveKid string

	TokenTTL  time.Duration
	CookieTTL time.Duration

	RateLimitRPM int

	TLSCert    string
	TLSKey     string
	RequireTLS bool

	SeedFile string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function. Tests pass a map lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:               get("PORT", "5000"),
		MongoURI:           get("MONGODB_URI", ""),
		RoomsDB:            get("ROOMS_DB", "RoomsDB"),
		RoomsCollection:    get("ROOMS_COLLECTION", "roomCollection"),
		UsersDB:            get("USERS_DB", "UserDatas"),
		BookingsCollection: get("BOOKINGS_COLLECTION", "bookings"),
		JWTSecret:          get("JWT_SECRET", ""),
		JWTActiveKid:       get("JWT_ACTIVE_KID", ""),
		TLSCert:            get("TLS_CERT", ""),
		TLSKey:             get("TLS_KEY", ""),
		SeedFile:           get("SEED_FILE", "seed/rooms.yaml"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI must be set")
	}

	var err error
	if cfg.Transactions, err = strconv.ParseBool(get("MONGODB_TRANSACTIONS", "true")); err != nil {
		return nil, fmt.Errorf("MONGODB_TRANSACTIONS: %w", err)
	}
	if cfg.RequireTLS, err = strconv.ParseBool(get("REQUIRE_TLS", "false")); err != nil {
		return nil, fmt.Errorf("REQUIRE_TLS: %w", err)
	}
	if cfg.TokenTTL, err = parsePositiveDuration(get("TOKEN_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.CookieTTL, err = parsePositiveDuration(get("COOKIE_TTL", "10000000ms")); err != nil {
		return nil, fmt.Errorf("COOKIE_TTL: %w", err)
	}

	cfg.RateLimitRPM = 10
	if v := get("RATE_LIMIT_RPM", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPM: want a positive integer, got %q", v)
		}
		cfg.RateLimitRPM = n
	}

	if keys := get("JWT_KEYS", ""); keys != "" {
		if cfg.JWTKeys, err = ParseKeys(keys); err != nil {
			return nil, err
		}
		if _, ok := cfg.JWTKeys[cfg.JWTActiveKid]; !ok {
			return nil, fmt.Errorf("JWT_ACTIVE_KID %q is not present in JWT_KEYS", cfg.JWTActiveKid)
		}
	} else if cfg.JWTSecret == "" {
		return nil, errors.New("either JWT_SECRET or JWT_KEYS must be set")
	}

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	if cfg.RequireTLS && cfg.TLSCert == "" {
		return nil, errors.New("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured")
	}

	return cfg, nil
}

// ParseKeys parses the JWT_KEYS format kid:secret,kid2:secret2.
func ParseKeys(s string) (map[string]string, error) {
	keys := map[string]string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kid, secret, ok := strings.Cut(p, ":")
		if !ok || kid == "" || secret == "" {
			return nil, fmt.Errorf("invalid JWT_KEYS entry: %s", p)
		}
		keys[kid] = secret
	}
	if len(keys) == 0 {
		return nil, errors.New("JWT_KEYS has no entries")
	}
	return keys, nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
