// Package auth carries the token and secret primitives shared by the API
// middleware: JWT parsing for user identity, bcrypt comparison for the
// admin settings key. Leaf package with no domain dependencies.
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BCryptCost is the bcrypt work factor for newly minted hashes.
const BCryptCost = 12

// DefaultJWTExpiryHours applies when JWT_EXPIRY is unset or unparsable.
const DefaultJWTExpiryHours = 24

const (
	envJWTSecret = "JWT_SECRET"
	envJWTExpiry = "JWT_EXPIRY"
)

// getJWTSecret reads JWT_SECRET. Panicking here is deliberate: tokens must
// never be minted or accepted without a configured secret.
func getJWTSecret() []byte {
	secret := os.Getenv(envJWTSecret)
	if secret == "" {
		panic(envJWTSecret + " environment variable not set")
	}
	return []byte(secret)
}

func getJWTExpiry() time.Duration {
	hours, err := strconv.Atoi(os.Getenv(envJWTExpiry))
	if err != nil || hours <= 0 {
		hours = DefaultJWTExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// HashKey hashes a plaintext admin key or password with bcrypt.
func HashKey(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

// VerifyKey reports whether plain matches the bcrypt hash. Malformed hashes
// verify as false rather than erroring, so callers cannot leak hash details.
func VerifyKey(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Claims are the token claims this service consumes. The external auth
// collaborator issues tokens; only the user identity matters here.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateJWT mints a signed token for a user. Used by operational tooling
// and tests; the production issuer is the external auth service.
func GenerateJWT(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(getJWTExpiry())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(getJWTSecret())
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ParseJWT validates a token and extracts its claims.
func ParseJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Pin HMAC to block algorithm substitution.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid jwt claims or signature")
	}
	return claims, nil
}
