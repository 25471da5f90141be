package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken        = errors.New("no access token")
	ErrMalformedToken = errors.New("malformed access token")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleShop     Role = "shop"
	RoleRider    Role = "rider"
)

// Session is the client-side identity derived from the issued access token.
// The signing key lives on the store, so the token is decoded without
// verification; the store re-validates it on every request anyway.
type Session struct {
	token     string
	UserID    string
	ShopID    string
	RiderID   string
	Role      Role
	ExpiresAt time.Time
}

// FromToken decodes the bearer token's claims into a typed identity.
func FromToken(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	s := &Session{
		token:   token,
		UserID:  stringClaim(claims, "user_id"),
		ShopID:  stringClaim(claims, "shop_id"),
		RiderID: stringClaim(claims, "rider_id"),
		Role:    Role(stringClaim(claims, "role")),
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}

	return s, nil
}

// Token returns the raw bearer token for the Authorization header.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Authenticated reports whether the session can act as a customer identity.
func (s *Session) Authenticated() bool {
	if s == nil || s.token == "" || s.UserID == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return false
	}
	return true
}

// stringClaim reads a claim that the store may encode as either a string or
// a JSON number.
func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
