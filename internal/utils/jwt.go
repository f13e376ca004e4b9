package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel errors for token verification
	"strconv" // user IDs are mirrored into the subject claim as decimal strings
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

var (
	// ErrTokenMissing is returned when no token was presented at all.
	ErrTokenMissing = errors.New("session token missing")
	// ErrTokenInvalid covers bad signatures, wrong algorithms, malformed
	// strings, missing claims and expired tokens.
	ErrTokenInvalid = errors.New("session token invalid or expired")
)

// SessionClaims is the payload of a session token: the user's id and email
// plus the registered exp/iat/sub claims.
type SessionClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionToken represents a signed session JWT along with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user, valid from now
// for ttl.  The caller supplies now so that expiry can be tested exactly.
func NewSessionToken(secret string, userID int64, email string, now time.Time, ttl time.Duration) (SessionToken, error) {
	now = now.UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of raw as of now and
// returns its claims.  Only HS256 is accepted and exp is mandatory.
func ParseSessionToken(secret, raw string, now time.Time) (*SessionClaims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &SessionClaims{}
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if !tok.Valid || claims.UserID <= 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
