package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Status describes the stored session as far as it can be told locally.
type Status struct {
	// Authenticated is true when a complete pair is stored.
	Authenticated bool `json:"authenticated"`

	// Opaque is true when the access value is not a decodable JWT.
	Opaque bool `json:"opaque,omitempty"`

	// Subject is the user identifier claim, if any.
	Subject string `json:"subject,omitempty"`

	// ExpiresAt is the access credential's exp claim (zero when unknown).
	ExpiresAt time.Time `json:"expiresAt,omitempty"`

	// Expired reports whether ExpiresAt lies in the past.
	Expired bool `json:"expired"`
}

// Remaining returns the time left before the access credential expires.
func (s Status) Remaining(clock clockwork.Clock) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	d := s.ExpiresAt.Sub(clock.Now())
	if d < 0 {
		return 0
	}
	return d
}

// Inspect decodes the access credential WITHOUT verifying its signature. The
// result is informational only; the server stays the authority on validity.
func Inspect(pair Pair, ok bool, clock clockwork.Clock) Status {
	if !ok || !pair.Complete() {
		return Status{}
	}

	status := Status{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.Access, claims); err != nil {
		status.Opaque = true
		return status
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		status.ExpiresAt = exp.Time
		status.Expired = !clock.Now().Before(exp.Time)
	}

	if userID, ok := claims["user_id"]; ok {
		status.Subject = fmt.Sprint(userID)
	} else if sub, err := claims.GetSubject(); err == nil {
		status.Subject = sub
	}

	return status
}
