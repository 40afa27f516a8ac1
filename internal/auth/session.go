// Package auth implements the stateless session credential and password
// hashing used by the API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "sessionId"

	// SessionTTL is the lifetime of an issued session. Sign-out only expires
	// the cookie client-side; a captured token stays valid until this elapses.
	SessionTTL = 24 * time.Hour

	issuer   = "chirp-api"
	audience = "chirp-client"
)

// ErrInvalidSession is returned by Verify for any token that cannot be
// trusted: bad signature, malformed payload, wrong signing method, or
// elapsed expiry. Callers must not distinguish between these causes.
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the identity a session token carries.
type SessionClaims struct {
	UserID   uint
	Email    string
	UserName string
}

// SessionCodec issues and verifies signed session tokens.
type SessionCodec struct {
	secret []byte
}

// NewSessionCodec returns a codec signing with the given secret.
// An empty secret is a configuration error and must abort startup.
func NewSessionCodec(secret string) (*SessionCodec, error) {
	if secret == "" {
		return nil, errors.New("session signing secret is required")
	}
	return &SessionCodec{secret: []byte(secret)}, nil
}

// Issue produces a signed token embedding the claims, expiring in SessionTTL.
func (sc *SessionCodec) Issue(claims SessionClaims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(claims.UserID), 10),
		"email":    claims.Email,
		"username": claims.UserName,
		"iss":      issuer,
		"aud":      audience,
		"exp":      now.Add(SessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	})
	return token.SignedString(sc.secret)
}

// Verify parses and validates a token, returning the embedded claims or
// ErrInvalidSession. It never panics on attacker-supplied input.
func (sc *SessionCodec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return sc.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{UserID: uint(userID)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if username, ok := mapClaims["username"].(string); ok {
		claims.UserName = username
	}
	return claims, nil
}
