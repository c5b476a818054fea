package session

import "strings"

// Default paths of the backend's account endpoints.
const (
	DefaultRegisterPath = "/api/v1/accounts/register/"
	DefaultTokenPath    = "/api/v1/accounts/token/"
	DefaultRenewalPath  = "/api/v1/accounts/token/refresh/"
)

// DefaultPublicPaths are reachable without an access credential.
var DefaultPublicPaths = []string{
	DefaultRegisterPath,
	DefaultTokenPath,
	DefaultRenewalPath,
}

// Classifier tells public endpoints apart from protected ones.
//
// Public endpoints never get a credential attached and never trigger renewal
// on failure: a rejected login is not an expired session, and a rejected
// renewal must not recurse into another renewal.
type Classifier struct {
	public []string
}

// NewClassifier returns a classifier over the given allow-list.
func NewClassifier(publicPaths ...string) *Classifier {
	c := &Classifier{public: make([]string, 0, len(publicPaths))}
	for _, p := range publicPaths {
		if n := normalizePath(p); n != "/" {
			c.public = append(c.public, n)
		}
	}
	return c
}

// IsPublic reports whether path is, or lies below, an allow-listed path.
// Matching works on whole segments and tolerates a base path in front of the
// API, so "/backend/api/v1/accounts/token/" is public while
// "/api/v1/accounts/tokens/" is not.
func (c *Classifier) IsPublic(path string) bool {
	p := normalizePath(path)
	for _, public := range c.public {
		if strings.Contains(p, public) {
			return true
		}
	}
	return false
}

// normalizePath returns path with exactly one leading and trailing slash.
func normalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}
