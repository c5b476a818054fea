package credentials

import (
	"errors"

	"golang.org/x/oauth2"
)

// ErrIncompletePair is returned when a pair without both values is stored.
var ErrIncompletePair = errors.New("credential pair requires both access and refresh values")

// Pair is the access/refresh credential pair issued at login.
type Pair struct {
	// Access is the short-lived credential attached to protected requests.
	Access string `json:"access"`

	// Refresh is the longer-lived credential used only to mint a new Access.
	Refresh string `json:"refresh"`
}

// Complete reports whether both values are present.
func (p Pair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// WithAccess returns a copy of the pair carrying a new access value. The
// refresh value is left unchanged.
func (p Pair) WithAccess(access string) Pair {
	return Pair{Access: access, Refresh: p.Refresh}
}

// Token converts the pair into an oauth2.Token of type Bearer.
func (p Pair) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		TokenType:    "Bearer",
	}
}

// Store holds the credential pair of the current session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored pair, or false when the session is unauthenticated.
	Get() (Pair, bool)

	// Set replaces the stored pair. Both values must be present.
	Set(Pair) error

	// Clear removes the stored pair. Clearing an empty store is not an error.
	Clear() error
}
