// Package auth issues and verifies the signed, time-limited token carried in the auth cookie.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PaulBabatuyi/roomBooking-api/internal/normalize"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var (
	// ErrUnauthenticated means no token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken means the token failed signature, algorithm or expiry checks.
	ErrInvalidToken = errors.New("invalid token")
)

// JWTManager signs and validates JWT tokens used by the API.
type JWTManager struct {
	keys      map[string][]byte // kid -> HMAC key derived from the configured secret
	activeKid string            // kid used for signing; "" when rotation is not configured
	duration  time.Duration     // how long tokens are valid (1 hour by default)
	now       func() time.Time
}

// Claims is the custom JWT payload: the user's email plus registered claims (iat, exp).
type Claims struct {
	Email string `json:"userEmail"`
	jwt.RegisteredClaims
}

// NewJWTManager returns a JWTManager that signs with a single secret.
func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		keys:     map[string][]byte{"": deriveKey(secretKey, "")},
		duration: duration,
		now:      time.Now,
	}
}

// NewJWTManagerFromKeys returns a JWTManager that signs with keys[activeKid] and
// verifies tokens signed by any key in keys, selected by the token's kid header.
func NewJWTManagerFromKeys(keys map[string]string, activeKid string, duration time.Duration) *JWTManager {
	derived := make(map[string][]byte, len(keys))
	for kid, secret := range keys {
		derived[kid] = deriveKey(secret, kid)
	}
	return &JWTManager{
		keys:      derived,
		activeKid: activeKid,
		duration:  duration,
		now:       time.Now,
	}
}

// deriveKey stretches a configured secret into a 32-byte HMAC key bound to its kid,
// so the same secret reused under two kids yields two different keys.
func deriveKey(secret, kid string) []byte {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("roomBooking-api/jwt/"+kid))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		// HKDF-SHA256 can produce up to 255*32 bytes; 32 never fails.
		panic(fmt.Sprintf("hkdf: %v", err))
	}
	return key
}

// Duration returns the token validity window.
func (m *JWTManager) Duration() time.Duration {
	return m.duration
}

// GenerateToken issues a signed JWT for the given email and returns it with its expiry.
func (m *JWTManager) GenerateToken(email string) (string, time.Time, error) {
	email = normalize.Email(email)
	if email == "" {
		return "", time.Time{}, errors.New("email is required")
	}

	now := m.now()
	expiresAt := now.Add(m.duration)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	// HS256 (HMAC with SHA-256)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if m.activeKid != "" {
		token.Header["kid"] = m.activeKid
	}

	key, ok := m.keys[m.activeKid]
	if !ok {
		return "", time.Time{}, fmt.Errorf("no signing key for kid %q", m.activeKid)
	}

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken parses and validates a token and returns its claims.
// It returns ErrUnauthenticated for an empty token and wraps ErrInvalidToken otherwise.
func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing userEmail claim", ErrInvalidToken)
	}
	return claims, nil
}

func (m *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	// Security check: ensure token was signed with HMAC (not asymmetric key)
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	kid, _ := token.Header["kid"].(string)
	key, ok := m.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}
