package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedAccess(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspect(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	t.Run("absent", func(t *testing.T) {
		status := Inspect(Pair{}, false, clock)
		assert.False(t, status.Authenticated)
	})

	t.Run("valid jwt", func(t *testing.T) {
		access := signedAccess(t, jwt.MapClaims{
			"user_id": 7,
			"exp":     now.Add(5 * time.Minute).Unix(),
		})
		status := Inspect(Pair{Access: access, Refresh: "R1"}, true, clock)

		assert.True(t, status.Authenticated)
		assert.False(t, status.Opaque)
		assert.Equal(t, "7", status.Subject)
		assert.False(t, status.Expired)
		assert.Equal(t, 5*time.Minute, status.Remaining(clock))
	})

	t.Run("expired jwt", func(t *testing.T) {
		access := signedAccess(t, jwt.MapClaims{
			"sub": "alice",
			"exp": now.Add(-time.Minute).Unix(),
		})
		status := Inspect(Pair{Access: access, Refresh: "R1"}, true, clock)

		assert.True(t, status.Expired)
		assert.Equal(t, "alice", status.Subject)
		assert.Equal(t, time.Duration(0), status.Remaining(clock))
	})

	t.Run("opaque access value", func(t *testing.T) {
		status := Inspect(Pair{Access: "A1", Refresh: "R1"}, true, clock)
		assert.True(t, status.Authenticated)
		assert.True(t, status.Opaque)
		assert.True(t, status.ExpiresAt.IsZero())
	})

	t.Run("fake clock advances", func(t *testing.T) {
		access := signedAccess(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()})
		c := clockwork.NewFakeClockAt(now)
		pair := Pair{Access: access, Refresh: "R1"}

		assert.False(t, Inspect(pair, true, c).Expired)
		c.Advance(2 * time.Minute)
		assert.True(t, Inspect(pair, true, c).Expired)
	})
}
