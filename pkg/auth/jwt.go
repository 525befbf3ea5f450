package auth

import (
	"errors"
	"time"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

// ErrWrongTokenKind is returned when a refresh token is used as an access
// token or the other way round.
var ErrWrongTokenKind = errors.New("auth: wrong token kind")

// Claims is the JWT payload.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// Principal returns the caller identity carried by the claims.
func (c *Claims) Principal() Principal {
	return Principal{UserID: c.UserID, Role: c.Role}
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

func sign(userID uint, role, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "trendiwear",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateToken signs an access token valid for JWT_TTL_HOURS.
func GenerateToken(userID uint, role string) (string, error) {
	return sign(userID, role, tokenAccess, config.JWTTTL())
}

// GenerateRefreshToken signs a refresh token valid for REFRESH_TTL_HOURS (7 days).
func GenerateRefreshToken(userID uint, role string) (string, error) {
	ttl := time.Duration(config.Int("REFRESH_TTL_HOURS", 7*24)) * time.Hour
	return sign(userID, role, tokenRefresh, ttl)
}

// ValidateToken parses an access token.
func ValidateToken(t string) (*Claims, error) {
	return parse(t, tokenAccess)
}

// ValidateRefreshToken parses a refresh token.
func ValidateRefreshToken(t string) (*Claims, error) {
	return parse(t, tokenRefresh)
}

func parse(t, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
