package config

import (
	"testing"
	"time"
)

func lookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"MONGODB_URI": "mongodb://localhost:27017",
		"JWT_SECRET":  "s3cret",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.RoomsDB != "RoomsDB" || cfg.RoomsCollection != "roomCollection" {
		t.Errorf("unexpected rooms namespace %s.%s", cfg.RoomsDB, cfg.RoomsCollection)
	}
	if cfg.UsersDB != "UserDatas" || cfg.BookingsCollection != "bookings" {
		t.Errorf("unexpected bookings namespace %s.%s", cfg.UsersDB, cfg.BookingsCollection)
	}
	if !cfg.Transactions {
		t.Error("transactions should default to enabled")
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.TokenTTL)
	}
	if cfg.CookieTTL != 10_000_000*time.Millisecond {
		t.Errorf("CookieTTL = %s, want 10000000ms", cfg.CookieTTL)
	}
	if cfg.RateLimitRPM != 10 {
		t.Errorf("RateLimitRPM = %d, want 10", cfg.RateLimitRPM)
	}
}

func TestFromEnv_Keys(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"MONGODB_URI":    "mongodb://localhost:27017",
		"JWT_KEYS":       "k1:one, k2:two",
		"JWT_ACTIVE_KID": "k2",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if len(cfg.JWTKeys) != 2 || cfg.JWTKeys["k2"] != "two" {
		t.Fatalf("unexpected keys: %v", cfg.JWTKeys)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"MONGODB_URI": "mongodb://localhost", "JWT_SECRET": "x"}
	}

	cases := map[string]func(map[string]string){
		"missing uri":        func(e map[string]string) { delete(e, "MONGODB_URI") },
		"missing secret":     func(e map[string]string) { delete(e, "JWT_SECRET") },
		"bad rpm":            func(e map[string]string) { e["RATE_LIMIT_RPM"] = "zero" },
		"negative ttl":       func(e map[string]string) { e["TOKEN_TTL"] = "-1h" },
		"bad transactions":   func(e map[string]string) { e["MONGODB_TRANSACTIONS"] = "maybe" },
		"unknown active kid": func(e map[string]string) { e["JWT_KEYS"] = "k1:one"; e["JWT_ACTIVE_KID"] = "k9" },
		"half tls":           func(e map[string]string) { e["TLS_CERT"] = "cert.pem" },
		"require tls":        func(e map[string]string) { e["REQUIRE_TLS"] = "true" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			env := base()
			mutate(env)
			if _, err := FromEnv(lookup(env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseKeys_Invalid(t *testing.T) {
	for _, in := range []string{"nokid", ":secret", "kid:", ","} {
		if _, err := ParseKeys(in); err == nil {
			t.Errorf("ParseKeys(%q) succeeded, want error", in)
		}
	}
}
